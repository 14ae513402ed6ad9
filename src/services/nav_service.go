package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"time"

	"github.com/manideepv28/wealthwizard/src/logger"
	"github.com/manideepv28/wealthwizard/src/models"
	"github.com/manideepv28/wealthwizard/src/storage"
	"github.com/manideepv28/wealthwizard/src/utils"
)

// HTTPNavSource fetches NAV quotes from a JSON endpoint. The endpoint
// returns a flat object keyed by fund id, e.g. {"1": 51.02, "4": 176.40}.
type HTTPNavSource struct {
	url    string
	client *http.Client
}

func NewHTTPNavSource(url string) *HTTPNavSource {
	return &HTTPNavSource{
		url:    url,
		client: &http.Client{Timeout: 15 * time.Second},
	}
}

func (s *HTTPNavSource) FetchNavs(ctx context.Context, funds []models.Fund) (map[int64]float64, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("building nav request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching navs from %s: %w", s.url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("nav source returned status %d", resp.StatusCode)
	}

	var raw map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding nav response: %w", err)
	}

	navs := make(map[int64]float64, len(raw))
	for _, f := range funds {
		if nav, ok := raw[fmt.Sprintf("%d", f.ID)]; ok && nav > 0 {
			navs[f.ID] = nav
		}
	}
	return navs, nil
}

// StaticNavSource returns no updates. It stands in when no NAV endpoint is
// configured, keeping the seeded catalog NAVs as-is.
type StaticNavSource struct{}

func (StaticNavSource) FetchNavs(ctx context.Context, funds []models.Fund) (map[int64]float64, error) {
	return map[int64]float64{}, nil
}

// NavService refreshes catalog NAVs from a source and raises nav_change
// alerts for holders of funds that moved more than the threshold.
type NavService struct {
	funds     storage.FundStore
	holdings  storage.HoldingStore
	source    NavSource
	alerts    *AlertService
	threshold float64
}

func NewNavService(funds storage.FundStore, holdings storage.HoldingStore, source NavSource, alerts *AlertService, threshold float64) *NavService {
	return &NavService{
		funds:     funds,
		holdings:  holdings,
		source:    source,
		alerts:    alerts,
		threshold: threshold,
	}
}

// RefreshNavs pulls quotes and applies them. Per-fund failures are logged
// and skipped so one bad quote never blocks the rest of the catalog.
func (s *NavService) RefreshNavs(ctx context.Context) error {
	funds, err := s.funds.List()
	if err != nil {
		return fmt.Errorf("listing funds for nav refresh: %w", err)
	}

	navs, err := s.source.FetchNavs(ctx, funds)
	if err != nil {
		return fmt.Errorf("fetching navs: %w", err)
	}
	if len(navs) == 0 {
		logger.L.Debug("NAV refresh: no updates from source")
		return nil
	}

	updated := 0
	for _, fund := range funds {
		newNav, ok := navs[fund.ID]
		if !ok || newNav == fund.CurrentNav {
			continue
		}
		if err := s.funds.UpdateNav(fund.ID, utils.RoundFloat(newNav, 4)); err != nil {
			logger.L.Error("Failed to update NAV", "fundID", fund.ID, "error", err)
			continue
		}
		updated++

		if fund.CurrentNav > 0 {
			change := (newNav - fund.CurrentNav) / fund.CurrentNav
			if math.Abs(change) >= s.threshold {
				s.notifyHolders(fund, newNav, change)
			}
		}
	}
	logger.L.Info("NAV refresh completed", "fundsChecked", len(funds), "fundsUpdated", updated)
	return nil
}

func (s *NavService) notifyHolders(fund models.Fund, newNav, change float64) {
	userIDs, err := s.holdings.UsersHoldingFund(fund.ID)
	if err != nil {
		logger.L.Error("Could not resolve holders for nav alert", "fundID", fund.ID, "error", err)
		return
	}

	direction := "up"
	if change < 0 {
		direction = "down"
	}
	title := fmt.Sprintf("%s NAV moved %s %.2f%%", fund.Name, direction, math.Abs(change)*100)
	description := fmt.Sprintf("NAV changed from ₹%.4f to ₹%.4f.", fund.CurrentNav, newNav)

	for _, userID := range userIDs {
		if _, err := s.alerts.Raise(userID, models.AlertNavChange, title, description); err != nil {
			logger.L.Error("Failed to raise nav alert", "userID", userID, "fundID", fund.ID, "error", err)
		}
	}
}
