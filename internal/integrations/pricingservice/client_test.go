package pricingservice

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-OsagoQuoteService/pkg/logger"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(server.URL+"/", 2*time.Second, logger.NewNop())
}

func TestClient_Calculate_Success(t *testing.T) {
	var (
		gotBody map[string]interface{}
		gotAuth string
	)
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, calcPath, r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		gotAuth = r.Header.Get("Authorization")
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"calcRequestId": 15,
			"tariffVersionId": 2,
			"baseRate": 5000.00,
			"coeffRegion": 1.8000,
			"coeffPower": 1.3000,
			"coeffDrivers": 2.3200,
			"coeffTerm": 1.0000,
			"coeffKvs": 1.0000,
			"kbmClassCode": "3",
			"coeffKbm": 1.1700,
			"driverAgeYears": null,
			"driverExperienceYears": null,
			"resultAmount": 31760.64
		}`))
	})

	resp, err := client.Calculate(context.Background(), "secret", &CalcRequest{
		VehicleCategoryID: 1,
		RegionID:          3,
		PowerHP:           120,
		UnlimitedDrivers:  true,
		TermMonths:        12,
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, float64(1), gotBody["vehicleCategoryId"])
	assert.Equal(t, float64(120), gotBody["powerHp"])
	assert.Equal(t, true, gotBody["unlimitedDrivers"])
	// Пустые даты и класс КБМ передаются как null, а не пропускаются
	assert.Contains(t, gotBody, "driverBirthDate")
	assert.Nil(t, gotBody["driverBirthDate"])
	assert.Contains(t, gotBody, "kbmClassCode")
	assert.Nil(t, gotBody["kbmClassCode"])

	assert.Equal(t, int64(15), resp.CalcRequestID)
	assert.Equal(t, "3", resp.KbmClassCode)
	assert.Nil(t, resp.DriverAgeYears)
	assert.True(t, resp.ResultAmount.Equal(decimal.RequireFromString("31760.64")))
	assert.True(t, resp.CoeffKbm.Equal(decimal.RequireFromString("1.17")))
}

func TestClient_Calculate_AnonymousHasNoAuthorization(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = w.Write([]byte(`{"calcRequestId": 1, "resultAmount": "100.00"}`))
	})

	resp, err := client.Calculate(context.Background(), "", &CalcRequest{})
	require.NoError(t, err)
	assert.Equal(t, "100", resp.ResultAmount.String())
}

func TestClient_Calculate_Errors(t *testing.T) {
	tests := []struct {
		name        string
		status      int
		body        string
		wantErr     error
		wantMessage string
	}{
		{
			name:    "unauthorized",
			status:  http.StatusUnauthorized,
			body:    `{"code":401,"message":"Unauthorized"}`,
			wantErr: ErrUnauthorized,
		},
		{
			name:        "service message is kept verbatim",
			status:      http.StatusBadRequest,
			body:        `{"code":400,"message":"No active OSAGO tariff found for provided parameters"}`,
			wantErr:     ErrRejected,
			wantMessage: "No active OSAGO tariff found for provided parameters",
		},
		{
			name:        "empty body falls back to status",
			status:      http.StatusInternalServerError,
			wantErr:     ErrRejected,
			wantMessage: "Ошибка расчета (HTTP 500)",
		},
		{
			name:        "json without message falls back to status",
			status:      http.StatusBadGateway,
			body:        `{"code":502}`,
			wantErr:     ErrRejected,
			wantMessage: "Ошибка расчета (HTTP 502)",
		},
		{
			name:        "plain text body",
			status:      http.StatusServiceUnavailable,
			body:        "maintenance",
			wantErr:     ErrRejected,
			wantMessage: "maintenance",
		},
		{
			name:    "broken success body",
			status:  http.StatusOK,
			body:    `{"calcRequestId":`,
			wantErr: ErrInvalidResponse,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Calculate(context.Background(), "token", &CalcRequest{})
			require.ErrorIs(t, err, tt.wantErr)

			if tt.wantMessage != "" {
				var rejected *RejectedError
				require.True(t, errors.As(err, &rejected))
				assert.Equal(t, tt.status, rejected.StatusCode)
				assert.Equal(t, tt.wantMessage, rejected.Message)
			}
		})
	}
}

func TestClient_Calculate_Unavailable(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(url, time.Second, logger.NewNop())
	_, err := client.Calculate(context.Background(), "", &CalcRequest{})
	assert.ErrorIs(t, err, ErrUnavailable)
}

func TestClient_GetRefData(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, refDataPath, r.URL.Path)
		_, _ = w.Write([]byte(`{
			"vehicleCategories": [{"id": 1, "code": "B", "name": "Легковые"}],
			"regions": [{"id": 3, "code": "77", "name": "Москва"}],
			"terms": [{"months": 12, "name": "1 год"}],
			"kbmClasses": [{"code": "3", "coefficient": 1.17}]
		}`))
	})

	refData, err := client.GetRefData(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, refData.VehicleCategories, 1)
	assert.Equal(t, "B", refData.VehicleCategories[0].Code)
	assert.Equal(t, int64(3), refData.Regions[0].ID)
	assert.Equal(t, 12, refData.Terms[0].Months)
	assert.True(t, refData.KbmClasses[0].Coefficient.Equal(decimal.RequireFromString("1.17")))
}

func TestClient_GetRefData_Rejected(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})

	_, err := client.GetRefData(context.Background(), "")
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, "Ошибка загрузки справочников (HTTP 404)", rejected.Message)
}
