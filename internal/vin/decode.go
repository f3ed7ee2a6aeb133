package vin

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// DefaultLookupURL is the NHTSA vPIC values endpoint.
const DefaultLookupURL = "https://vpic.nhtsa.dot.gov/api/vehicles"

// DefaultLookupTimeout bounds the remote lookup. The fallback covers
// anything slower.
const DefaultLookupTimeout = 3 * time.Second

// ErrBadVIN is returned by Decode when the input is not a plausible VIN.
// Validation belongs at the capture boundary; this only guards against
// internal misuse and is retryable by the caller.
var ErrBadVIN = errors.New("vin: malformed vin")

// Attributes is the decoded vehicle record. All fields may be blank when
// unknown.
type Attributes struct {
	Year      string `json:"year"`
	Make      string `json:"make"`
	Model     string `json:"model"`
	Trim      string `json:"trim"`
	BodyClass string `json:"body_class"`
	DriveType string `json:"drive_type"`
	FuelType  string `json:"fuel_type"`
	Doors     string `json:"doors"`
	GVWR      string `json:"gvwr"`
}

// lookupResult mirrors the subset of the vPIC response we consume.
type lookupResult struct {
	Results []struct {
		ModelYear       string `json:"ModelYear"`
		Make            string `json:"Make"`
		Model           string `json:"Model"`
		Trim            string `json:"Trim"`
		BodyClass       string `json:"BodyClass"`
		DriveType       string `json:"DriveType"`
		FuelTypePrimary string `json:"FuelTypePrimary"`
		Doors           string `json:"Doors"`
		GVWR            string `json:"GVWR"`
	} `json:"Results"`
}

// Decoder resolves a validated VIN into Attributes: remote vPIC lookup
// first, offline tables when the remote path yields nothing usable.
type Decoder struct {
	baseURL string
	client  *http.Client
	timeout time.Duration
}

// NewDecoder constructs a Decoder. Empty baseURL selects the public NHTSA
// endpoint; nil client selects http.DefaultClient; non-positive timeout
// selects the 3-second default.
func NewDecoder(baseURL string, client *http.Client, timeout time.Duration) *Decoder {
	if baseURL == "" {
		baseURL = DefaultLookupURL
	}
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultLookupTimeout
	}
	return &Decoder{baseURL: baseURL, client: client, timeout: timeout}
}

// Decode returns best-effort Attributes for v. Remote failures of any kind
// (timeout, network, malformed body) silently fall back to the offline
// decode; a remote response with a populated Make always wins. The only
// error is ErrBadVIN for input that is not 17 normalized characters.
func (d *Decoder) Decode(ctx context.Context, v string) (Attributes, error) {
	v = Normalize(v)
	if len(v) != Length {
		return Attributes{}, ErrBadVIN
	}

	if attrs, ok := d.remoteDecode(ctx, v); ok {
		return attrs, nil
	}
	return offlineDecode(v), nil
}

// remoteDecode performs the single outbound call. ok is false whenever the
// result is unusable, whatever the reason.
func (d *Decoder) remoteDecode(ctx context.Context, v string) (Attributes, bool) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	url := fmt.Sprintf("%s/decodevinvalues/%s?format=json", d.baseURL, v)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Attributes{}, false
	}

	resp, err := d.client.Do(req)
	if err != nil {
		return Attributes{}, false
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Attributes{}, false
	}

	var body lookupResult
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Attributes{}, false
	}
	if len(body.Results) == 0 || body.Results[0].Make == "" {
		return Attributes{}, false
	}

	r := body.Results[0]
	return Attributes{
		Year:      r.ModelYear,
		Make:      r.Make,
		Model:     r.Model,
		Trim:      r.Trim,
		BodyClass: r.BodyClass,
		DriveType: r.DriveType,
		FuelType:  r.FuelTypePrimary,
		Doors:     r.Doors,
		GVWR:      r.GVWR,
	}, true
}
