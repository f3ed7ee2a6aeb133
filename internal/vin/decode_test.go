package vin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOfflineDecode_KnownWMI(t *testing.T) {
	tests := []struct {
		name      string
		vin       string
		make_     string
		model     string
		bodyClass string
		year      string
	}{
		{"ford transit", "1FTBW3XM5TKA12345", "Ford", "Transit", "Van", "2026"},
		{"ford transit wagon", "1FTBR1C84PKA55667", "Ford", "Transit", "Wagon", "2023"},
		{"ford f150", "1FTFW1E50MFA01234", "Ford", "F-150", "Pickup", "2021"},
		{"transit connect", "NM0LS7E72L1234567", "Ford", "Transit", "Van", "2020"},
		{"ram promaster", "3C66RVDG5NE123456", "RAM", "ProMaster", "Van", "2022"},
		{"sprinter", "WD3PE8CD5LP123456", "Mercedes-Benz", "Sprinter", "Van", "2020"},
		{"chevy", "1GCGG25V871234567", "Chevrolet", "Vehicle", "", "2007"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := offlineDecode(tc.vin)
			assert.Equal(t, tc.make_, got.Make)
			assert.Equal(t, tc.model, got.Model)
			assert.Equal(t, tc.bodyClass, got.BodyClass)
			assert.Equal(t, tc.year, got.Year)
		})
	}
}

func TestOfflineDecode_TwoCharFallback(t *testing.T) {
	// 1GB is not in the WMI table; the 2-char prefix table catches it.
	got := offlineDecode("1GB0GRFF5L1234567")
	assert.Equal(t, "GM", got.Make)
}

func TestOfflineDecode_UnknownMake(t *testing.T) {
	got := offlineDecode("ZZZZZZZZZZZZZZZZZ")
	assert.Equal(t, "Unknown", got.Make)
	assert.Equal(t, "Vehicle", got.Model)
}

func TestDecode_RemoteSuccessWins(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Contains(t, r.URL.Path, "/decodevinvalues/"+validVIN)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"Results":[{"ModelYear":"1989","Make":"GILLIG","Model":"Phantom",` +
			`"BodyClass":"Bus","FuelTypePrimary":"Diesel","Doors":"1","GVWR":"Class 7"}]}`))
	}))
	defer srv.Close()

	d := NewDecoder(srv.URL, srv.Client(), time.Second)
	got, err := d.Decode(context.Background(), validVIN)
	require.NoError(t, err)
	assert.Equal(t, "GILLIG", got.Make)
	assert.Equal(t, "1989", got.Year)
	assert.Equal(t, "Bus", got.BodyClass)
	assert.Equal(t, "Diesel", got.FuelType)
}

func TestDecode_EmptyMakeFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"Results":[{"Make":""}]}`))
	}))
	defer srv.Close()

	d := NewDecoder(srv.URL, srv.Client(), time.Second)
	got, err := d.Decode(context.Background(), "1FTBW3XM5TKA12345")
	require.NoError(t, err)
	assert.Equal(t, "Ford", got.Make, "offline fallback must resolve the WMI")
	assert.Equal(t, "Transit", got.Model)
}

func TestDecode_RemoteErrorFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	d := NewDecoder(srv.URL, srv.Client(), time.Second)
	got, err := d.Decode(context.Background(), "3C6TRVDG5NE123456")
	require.NoError(t, err, "remote failure must never surface")
	assert.Equal(t, "RAM", got.Make)
}

func TestDecode_TimeoutFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	d := NewDecoder(srv.URL, srv.Client(), 20*time.Millisecond)
	start := time.Now()
	got, err := d.Decode(context.Background(), "WD3PE8CD5LP123456")
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 150*time.Millisecond, "timeout must be enforced")
	assert.Equal(t, "Mercedes-Benz", got.Make)
}

func TestDecode_MalformedBodyFallsBack(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{not json`))
	}))
	defer srv.Close()

	d := NewDecoder(srv.URL, srv.Client(), time.Second)
	got, err := d.Decode(context.Background(), "1FTBW3XM5TKA12345")
	require.NoError(t, err)
	assert.Equal(t, "Ford", got.Make)
}

func TestDecode_BadVIN(t *testing.T) {
	d := NewDecoder("http://127.0.0.1:0", nil, time.Second)
	_, err := d.Decode(context.Background(), "too-short")
	assert.ErrorIs(t, err, ErrBadVIN)
}
