// Package geo resolves visitor IPs to human readable addresses. The online
// resolver asks a JSON location API; the offline resolver reads a local sqlite
// region table; ChainResolver tries them in order.
package geo

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/pkg/errs"
)

const onlineTimeout = 5 * time.Second

// OnlineResolver calls a location API answering
// {"status":0,"result":{"formatted_address":"...","address_component":{"province":"..."}}}.
// Any status other than zero means the IP could not be located.
type OnlineResolver struct {
	client  *http.Client
	baseURL string
	key     string
}

func NewOnlineResolver(baseURL, key string) (*OnlineResolver, error) {
	u, err := url.Parse(baseURL)
	if err != nil || u.Host == "" {
		return nil, errs.NewValueIsInvalidErrorWithCause("geo api url", fmt.Errorf("%q is not an absolute url", baseURL))
	}
	return &OnlineResolver{
		client:  &http.Client{Timeout: onlineTimeout},
		baseURL: baseURL,
		key:     key,
	}, nil
}

func (r *OnlineResolver) Name() string { return "online" }

type onlineResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
	Result  struct {
		FormattedAddress string `json:"formatted_address"`
		AddressComponent struct {
			Province string `json:"province"`
		} `json:"address_component"`
	} `json:"result"`
}

func (r *OnlineResolver) Resolve(ctx context.Context, ip string) (visitor.Address, error) {
	ip = strings.TrimSpace(ip)
	if ip == "" {
		return visitor.Address{}, errs.NewValueIsRequiredError("ip")
	}

	u, _ := url.Parse(r.baseURL)
	q := u.Query()
	q.Set("ip", ip)
	if r.key != "" {
		q.Set("key", r.key)
	}
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return visitor.Address{}, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return visitor.Address{}, fmt.Errorf("geo api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return visitor.Address{}, fmt.Errorf("geo api: unexpected status %d", resp.StatusCode)
	}

	var body onlineResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return visitor.Address{}, fmt.Errorf("geo api: %w", err)
	}
	if body.Status != 0 {
		return visitor.Address{}, errs.NewObjectNotFoundErrorWithCause("address", ip,
			fmt.Errorf("geo api status %d: %s", body.Status, body.Message))
	}

	addr := visitor.Address{
		Formatted: strings.TrimSpace(body.Result.FormattedAddress),
		Province:  strings.TrimSpace(body.Result.AddressComponent.Province),
		Source:    r.Name(),
	}
	if addr.IsZero() {
		return visitor.Address{}, errs.NewObjectNotFoundError("address", ip)
	}
	return addr, nil
}
