package passengers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"carpool-route-service/internal/domain"
	"carpool-route-service/internal/platform/auth"
	"carpool-route-service/internal/platform/obs"

	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Safety stop for upstreams that report an ever-growing page count.
const maxPages = 100

// RESTPassengerSource lists passengers from the passenger service over HTTP.
// The caller's bearer token, if any, is forwarded on every request.
type RESTPassengerSource struct {
	client  *http.Client
	baseURL string
	log     *zap.Logger
}

func NewRESTPassengerSource(baseURL string, log *zap.Logger) (*RESTPassengerSource, error) {
	if baseURL == "" {
		return nil, errors.New("rest passenger source: base url is empty")
	}
	if _, err := url.Parse(baseURL); err != nil {
		return nil, fmt.Errorf("rest passenger source: parse base url: %w", err)
	}

	return &RESTPassengerSource{
		client:  &http.Client{Timeout: 10 * time.Second},
		baseURL: strings.TrimRight(baseURL, "/"),
		log:     log,
	}, nil
}

type pageEnvelope struct {
	Data       []Record `json:"data"`
	Page       int      `json:"page"`
	TotalPages int      `json:"totalPages"`
}

func (s *RESTPassengerSource) ListPassengers(ctx context.Context, status string) (_ []domain.PassengerRecord, err error) {
	defer obs.Time(ctx, s.log, "passengers.rest.List")(&err)

	var all []Record
	for page := 1; page <= maxPages; page++ {
		records, totalPages, err := s.fetchPage(ctx, status, page)
		if err != nil {
			return nil, err
		}
		all = append(all, records...)

		if page >= totalPages {
			break
		}
	}

	return lo.Map(all, func(r Record, _ int) domain.PassengerRecord { return r.ToDomain() }), nil
}

// fetchPage returns one page of records and the total page count. A bare
// JSON array is treated as a single, complete page.
func (s *RESTPassengerSource) fetchPage(ctx context.Context, status string, page int) ([]Record, int, error) {
	q := url.Values{}
	if status != "" {
		q.Set("status", status)
	}
	q.Set("page", strconv.Itoa(page))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/passengers?"+q.Encode(), nil)
	if err != nil {
		return nil, 0, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if token, ok := auth.BearerToken(ctx); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, 0, fmt.Errorf("get passengers page=%d: %w", page, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, 0, fmt.Errorf("read passengers page=%d: %w", page, err)
	}
	if resp.StatusCode >= 400 {
		return nil, 0, fmt.Errorf("get passengers page=%d: code %d: %s",
			page, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var records []Record
		if err := json.Unmarshal(body, &records); err != nil {
			return nil, 0, fmt.Errorf("decode passengers page=%d: %w", page, err)
		}
		return records, 1, nil
	}

	var env pageEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, 0, fmt.Errorf("decode passengers page=%d: %w", page, err)
	}
	return env.Data, env.TotalPages, nil
}
