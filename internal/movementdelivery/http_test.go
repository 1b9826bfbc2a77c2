package movementdelivery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"iter"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang/mock/gomock"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/go-petr/bank-ledger/internal/domain"
	"github.com/go-petr/bank-ledger/pkg/errorspkg"
	"github.com/go-petr/bank-ledger/pkg/randompkg"
	"github.com/go-petr/bank-ledger/pkg/validatorpkg"
	"github.com/go-petr/bank-ledger/pkg/web"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	if err := validatorpkg.RegisterGin(); err != nil {
		fmt.Fprintf(os.Stderr, "validatorpkg.RegisterGin() returned error: %v\n", err)
		os.Exit(1)
	}

	os.Exit(m.Run())
}

func randomMovement(number int64) domain.Movement {
	return domain.Movement{
		ID:               uuid.New(),
		Date:             domain.NewDate(2022, time.February, 10),
		Value:            decimal.RequireFromString("500"),
		ResultingBalance: decimal.RequireFromString("1500"),
		AccountNumber:    number,
		CreatedAt:        time.Now().Truncate(time.Second).UTC(),
	}
}

func TestCreate(t *testing.T) {
	number := randompkg.AccountNumber()
	movement := randomMovement(number)

	validBody := gin.H{
		"account_number": strconv.FormatInt(number, 10),
		"date":           "2022-02-10",
		"value":          "500",
	}

	testCases := []struct {
		name           string
		requestBody    gin.H
		buildStubs     func(movementService *MockService)
		wantStatusCode int
		wantKind       string
		wantError      string
	}{
		{
			name:        "OK",
			requestBody: validBody,
			buildStubs: func(movementService *MockService) {
				arg := domain.RecordMovementParams{
					AccountNumber: number,
					Date:          domain.NewDate(2022, time.February, 10),
					Value:         decimal.RequireFromString("500"),
				}

				movementService.EXPECT().
					Record(gomock.Any(), gomock.Eq(arg)).
					Times(1).
					Return(movement, nil)
			},
			wantStatusCode: http.StatusCreated,
		},
		{
			name: "InvalidDate",
			requestBody: gin.H{
				"account_number": strconv.FormatInt(number, 10),
				"date":           "10/02/2022",
				"value":          "500",
			},
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantKind:       "ValidationFailure",
			wantError:      "Date must be a date formatted as yyyy-mm-dd",
		},
		{
			name: "InvalidValue",
			requestBody: gin.H{
				"account_number": strconv.FormatInt(number, 10),
				"date":           "2022-02-10",
				"value":          "1234567890123456",
			},
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantKind:       "ValidationFailure",
			wantError:      "Value must be a decimal with at most 15 integer and 2 fraction digits",
		},
		{
			name: "MissingAccountNumber",
			requestBody: gin.H{
				"date":  "2022-02-10",
				"value": "500",
			},
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantKind:       "ValidationFailure",
			wantError:      "AccountNumber field is required",
		},
		{
			name:        "AccountNotFound",
			requestBody: validBody,
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Movement{}, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantKind:       "AccountNotFound",
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name:        "InsufficientFunds",
			requestBody: validBody,
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Movement{}, domain.ErrInsufficientFunds)
			},
			wantStatusCode: http.StatusBadRequest,
			wantKind:       "InsufficientFunds",
			wantError:      domain.ErrInsufficientFunds.Error(),
		},
		{
			name:        "DuplicateMovement",
			requestBody: validBody,
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Movement{}, domain.ErrDuplicateMovement)
			},
			wantStatusCode: http.StatusConflict,
			wantKind:       "DuplicateMovement",
			wantError:      domain.ErrDuplicateMovement.Error(),
		},
		{
			name:        "InternalServerError",
			requestBody: validBody,
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					Record(gomock.Any(), gomock.Any()).
					Times(1).
					Return(domain.Movement{}, errorspkg.ErrInternal)
			},
			wantStatusCode: http.StatusInternalServerError,
			wantKind:       "PersistenceFailure",
			wantError:      errorspkg.ErrInternal.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			movementService := NewMockService(ctrl)
			movementHandler := NewHandler(movementService)

			server := gin.New()
			server.POST("/movements", movementHandler.Create)

			tc.buildStubs(movementService)

			body, err := json.Marshal(tc.requestBody)
			if err != nil {
				t.Fatalf("Encoding request body error: %v", err)
			}

			req, err := http.NewRequest(http.MethodPost, "/movements", bytes.NewReader(body))
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			got := &struct {
				Movement domain.Movement `json:"movement"`
			}{}
			res := web.Response{Data: got}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusCreated {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				if res.Kind != tc.wantKind {
					t.Errorf(`resp.Kind=%q, want %q`, res.Kind, tc.wantKind)
				}

				return
			}

			if diff := cmp.Diff(movement, got.Movement, cmpopts.EquateApproxTime(time.Second)); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestList(t *testing.T) {
	number := randompkg.AccountNumber()
	movements := []domain.Movement{randomMovement(number), randomMovement(number)}

	seqOf := func(err error, items ...domain.Movement) iter.Seq2[domain.Movement, error] {
		return func(yield func(domain.Movement, error) bool) {
			for _, m := range items {
				if !yield(m, nil) {
					return
				}
			}

			if err != nil {
				yield(domain.Movement{}, err)
			}
		}
	}

	testCases := []struct {
		name           string
		number         string
		buildStubs     func(movementService *MockService)
		wantStatusCode int
		wantMovements  []domain.Movement
	}{
		{
			name:   "OK",
			number: strconv.FormatInt(number, 10),
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					ListByAccount(gomock.Any(), gomock.Eq(number)).
					Times(1).
					Return(seqOf(nil, movements...))
			},
			wantStatusCode: http.StatusOK,
			wantMovements:  movements,
		},
		{
			name:   "Empty",
			number: strconv.FormatInt(number, 10),
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					ListByAccount(gomock.Any(), gomock.Eq(number)).
					Times(1).
					Return(seqOf(nil))
			},
			wantStatusCode: http.StatusOK,
			wantMovements:  []domain.Movement{},
		},
		{
			name:   "InvalidNumber",
			number: "abc",
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().ListByAccount(gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:   "FailureMidway",
			number: strconv.FormatInt(number, 10),
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					ListByAccount(gomock.Any(), gomock.Eq(number)).
					Times(1).
					Return(seqOf(errorspkg.ErrInternal, movements[0]))
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			movementService := NewMockService(ctrl)
			movementHandler := NewHandler(movementService)

			server := gin.New()
			server.GET("/movements/:number", movementHandler.List)

			tc.buildStubs(movementService)

			req, err := http.NewRequest(http.MethodGet, "/movements/"+tc.number, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			if tc.wantStatusCode != http.StatusOK {
				return
			}

			got := &struct {
				Movements []domain.Movement `json:"movements"`
			}{}

			if err := json.NewDecoder(recorder.Body).Decode(&web.Response{Data: got}); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if diff := cmp.Diff(tc.wantMovements, got.Movements, cmpopts.EquateApproxTime(time.Second)); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestReport(t *testing.T) {
	number := randompkg.AccountNumber()
	start := domain.NewDate(2022, time.February, 1)
	end := domain.NewDate(2022, time.February, 28)

	rows := []domain.ReportRow{
		{
			Date:           domain.NewDate(2022, time.February, 10),
			ClientName:     randompkg.ClientName(),
			AccountNumber:  strconv.FormatInt(number, 10),
			AccountType:    "SAVINGS",
			OpeningBalance: decimal.RequireFromString("1000"),
			Active:         true,
			MovementValue:  decimal.RequireFromString("500"),
			ClosingBalance: decimal.RequireFromString("1500"),
		},
	}

	query := func(accountNumber, startDate, endDate string) string {
		return fmt.Sprintf("/movements/report?account_number=%s&start_date=%s&end_date=%s", accountNumber, startDate, endDate)
	}

	testCases := []struct {
		name           string
		url            string
		buildStubs     func(movementService *MockService)
		wantStatusCode int
		wantRows       []domain.ReportRow
		wantError      string
	}{
		{
			name: "OK",
			url:  query(strconv.FormatInt(number, 10), "2022-02-01", "2022-02-28"),
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					Report(gomock.Any(), gomock.Eq(number), gomock.Eq(start), gomock.Eq(end)).
					Times(1).
					Return(rows, nil)
			},
			wantStatusCode: http.StatusOK,
			wantRows:       rows,
		},
		{
			name: "Empty",
			url:  query(strconv.FormatInt(number, 10), "2022-02-01", "2022-02-28"),
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					Report(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return([]domain.ReportRow{}, nil)
			},
			wantStatusCode: http.StatusOK,
			wantRows:       []domain.ReportRow{},
		},
		{
			name: "MissingEndDate",
			url:  fmt.Sprintf("/movements/report?account_number=%d&start_date=2022-02-01", number),
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().Report(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "EndDate field is required",
		},
		{
			name: "InvalidDateRange",
			url:  query(strconv.FormatInt(number, 10), "2022-02-28", "2022-02-01"),
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					Report(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, domain.ErrInvalidDateRange)
			},
			wantStatusCode: http.StatusBadRequest,
			wantError:      domain.ErrInvalidDateRange.Error(),
		},
		{
			name: "AccountNotFound",
			url:  query(strconv.FormatInt(number, 10), "2022-02-01", "2022-02-28"),
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					Report(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, domain.ErrAccountNotFound)
			},
			wantStatusCode: http.StatusNotFound,
			wantError:      domain.ErrAccountNotFound.Error(),
		},
		{
			name: "DirectoryUnavailable",
			url:  query(strconv.FormatInt(number, 10), "2022-02-01", "2022-02-28"),
			buildStubs: func(movementService *MockService) {
				movementService.EXPECT().
					Report(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Times(1).
					Return(nil, domain.ErrDirectoryUnavailable)
			},
			wantStatusCode: http.StatusBadGateway,
			wantError:      domain.ErrDirectoryUnavailable.Error(),
		},
	}

	for i := range testCases {
		tc := testCases[i]

		t.Run(tc.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			movementService := NewMockService(ctrl)
			movementHandler := NewHandler(movementService)

			server := gin.New()
			server.GET("/movements/report", movementHandler.Report)

			tc.buildStubs(movementService)

			req, err := http.NewRequest(http.MethodGet, tc.url, nil)
			if err != nil {
				t.Fatalf("Creating request error: %v", err)
			}

			recorder := httptest.NewRecorder()
			server.ServeHTTP(recorder, req)

			if got := recorder.Code; got != tc.wantStatusCode {
				t.Errorf("Status code: got %v, want %v", got, tc.wantStatusCode)
			}

			got := &struct {
				Report []domain.ReportRow `json:"report"`
			}{}
			res := web.Response{Data: got}

			if err := json.NewDecoder(recorder.Body).Decode(&res); err != nil {
				t.Fatalf("Decoding response body error: %v", err)
			}

			if tc.wantStatusCode != http.StatusOK {
				if res.Error != tc.wantError {
					t.Errorf(`resp.Error=%q, want %q`, res.Error, tc.wantError)
				}

				return
			}

			if diff := cmp.Diff(tc.wantRows, got.Report); diff != "" {
				t.Errorf("res.Data mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
