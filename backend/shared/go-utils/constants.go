package utils

const (
	OrganizationName                      = "EBH Rentals"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	// Object-storage bucket that holds maintenance evidence photos.
	DefaultEvidenceBucket = "evidence-images"
)
