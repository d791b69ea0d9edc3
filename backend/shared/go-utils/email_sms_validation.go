package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"net"
	"net/mail"
	"regexp"
	"strings"

	"github.com/sendgrid/sendgrid-go"
	twilio "github.com/twilio/twilio-go"
	twilioclient "github.com/twilio/twilio-go/client"
	lookupsv2 "github.com/twilio/twilio-go/rest/lookups/v2"
)

// -----------------------------------------------------------------------
// Phone numbers
// -----------------------------------------------------------------------

var e164Regex = regexp.MustCompile(`^\+[1-9]\d{7,14}$`)

func IsE164(number string) bool { return e164Regex.MatchString(number) }

// ValidatePhoneNumber requires E.164 syntax and, when validateWithTwilio is
// set and a client is supplied, a successful Twilio Lookups v2 fetch.
// A 404 from Twilio is a plain "invalid", anything else is returned.
func ValidatePhoneNumber(
	ctx context.Context,
	number string,
	validateWithTwilio bool,
	tw *twilio.RestClient,
) (bool, error) {
	if !IsE164(number) {
		return false, nil
	}
	if !validateWithTwilio || tw == nil {
		return true, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	_, err := tw.LookupsV2.FetchPhoneNumber(number, &lookupsv2.FetchPhoneNumberParams{})
	if err == nil {
		return true, nil
	}
	if restErr, ok := err.(*twilioclient.TwilioRestError); ok {
		if restErr.Status == 404 {
			return false, nil
		}
		return false, fmt.Errorf("twilio lookup failed: %d %s", restErr.Status, restErr.Error())
	}
	return false, err
}

// -----------------------------------------------------------------------
// Email addresses
// -----------------------------------------------------------------------

func isValidEmailSyntax(e string) bool {
	_, err := mail.ParseAddress(e)
	return err == nil
}

func hasMX(ctx context.Context, domain string) bool {
	mx, err := net.DefaultResolver.LookupMX(ctx, domain)
	return err == nil && len(mx) > 0
}

// ValidateEmail checks syntax and an MX record. With validateWithSendGrid
// it also asks the SendGrid validation API and accepts "valid" or "risky".
func ValidateEmail(ctx context.Context, apiKey, email string, validateWithSendGrid bool) (bool, error) {
	if !isValidEmailSyntax(email) {
		return false, nil
	}
	parts := strings.SplitN(email, "@", 2)
	if len(parts) != 2 || !hasMX(ctx, parts[1]) {
		return false, nil
	}
	if !validateWithSendGrid {
		return true, nil
	}

	req := sendgrid.GetRequest(apiKey, "/v3/validations/email", "https://api.sendgrid.com")
	req.Method = "POST"
	body, _ := json.Marshal(map[string]string{"email": email})
	req.Body = body

	resp, err := sendgrid.API(req)
	if err != nil {
		return false, err
	}
	switch resp.StatusCode {
	case 200:
		var sg struct {
			Result struct {
				Verdict string `json:"verdict"`
			} `json:"result"`
		}
		if err := json.Unmarshal([]byte(resp.Body), &sg); err != nil {
			return false, fmt.Errorf("sendgrid JSON decode: %w", err)
		}
		v := strings.ToLower(sg.Result.Verdict)
		return v == "valid" || v == "risky", nil
	case 400:
		return false, nil
	default:
		return false, fmt.Errorf("sendgrid validation failed: status %d: %s", resp.StatusCode, resp.Body)
	}
}
