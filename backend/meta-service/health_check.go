package main

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"golang.org/x/sync/errgroup"

	"github.com/pomy-dev/ebh-repo/backend/shared/go-utils"
)

const (
	appName       = "meta-service"
	checkTimeout  = 2 * time.Second
	defaultTarget = "auth-service=http://localhost:8081/health,rental-service=http://localhost:8082/health"
)

type target struct {
	Name string
	URL  string
}

type healthReport struct {
	Status   string            `json:"status"`
	Services map[string]string `json:"services"`
}

// parseTargets reads "name=url,name=url". Entries without a name use the
// URL as their name.
func parseTargets(raw string) []target {
	var out []target
	for _, entry := range strings.Split(raw, ",") {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		name, url, ok := strings.Cut(entry, "=")
		if !ok {
			name, url = entry, entry
		}
		out = append(out, target{Name: strings.TrimSpace(name), URL: strings.TrimSpace(url)})
	}
	return out
}

type healthChecker struct {
	client  *http.Client
	targets []target
}

func (h *healthChecker) ping(ctx context.Context, t target) string {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, t.URL, nil)
	if err != nil {
		return "invalid target"
	}
	resp, err := h.client.Do(req)
	if err != nil {
		utils.Logger.WithError(err).Warnf("Service unhealthy: %s", t.Name)
		return "unreachable"
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		utils.Logger.Warnf("Service unhealthy: %s (HTTP %d)", t.Name, resp.StatusCode)
		return "unhealthy"
	}
	return "ok"
}

func (h *healthChecker) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	report := healthReport{Status: "OK", Services: make(map[string]string, len(h.targets))}
	var mu sync.Mutex

	g, ctx := errgroup.WithContext(r.Context())
	for _, t := range h.targets {
		g.Go(func() error {
			state := h.ping(ctx, t)
			mu.Lock()
			report.Services[t.Name] = state
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()

	status := http.StatusOK
	for _, state := range report.Services {
		if state != "ok" {
			report.Status = "Unhealthy"
			status = http.StatusServiceUnavailable
			break
		}
	}
	utils.RespondWithJSON(w, status, report)
}

func main() {
	utils.InitLogger(appName)
	utils.LoadDotEnv()

	checker := &healthChecker{
		client:  &http.Client{Timeout: checkTimeout},
		targets: parseTargets(utils.EnvOr("HEALTH_TARGETS", defaultTarget)),
	}

	router := mux.NewRouter()
	router.Handle("/health", checker).Methods(http.MethodGet)

	port := utils.EnvOr("APP_PORT", "8080")
	utils.Logger.Infof("Starting %s on port: %s (%d targets)", appName, port, len(checker.targets))
	if err := http.ListenAndServe(":"+port, router); err != nil {
		utils.Logger.Fatal("Failed to start server:", err)
	}
}
