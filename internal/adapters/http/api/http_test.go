package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/pvsa/internal/adapters/http/api"
	service "github.com/okian/pvsa/internal/app"
	"github.com/okian/pvsa/internal/domain/model"
	"github.com/okian/pvsa/internal/domain/types"
	"github.com/okian/pvsa/pkg/logger"
)

func init() {
	_ = logger.Init()
}

type mockDeps struct {
	result   model.SearchResult
	err      error
	gotQuery model.Query

	gotBirthdate string
	gotHours     float64

	period model.PeriodInfo
}

func (m *mockDeps) Lookup(_ context.Context, q model.Query) (model.SearchResult, error) {
	m.gotQuery = q
	return m.result, m.err
}

func (m *mockDeps) Eligibility(birthdate string, hours float64) model.Eligibility {
	m.gotBirthdate, m.gotHours = birthdate, hours
	if birthdate == "" {
		return model.Eligibility{Reason: "Valid birthdate is required"}
	}
	return model.Eligibility{Eligible: true, AgeGroup: "Teens (11-15)", Award: model.AwardBronze}
}

func (m *mockDeps) Period() model.PeriodInfo { return m.period }

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true, "rows": 3}
}

func newRouter(deps *mockDeps) *mux.Router {
	r := mux.NewRouter()
	api.NewServer(deps, mockStats{}).Register(r)
	return r
}

func do(r http.Handler, method, target string, header http.Header) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, http.NoBody)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestLookupHandler(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := &mockDeps{}
		r := newRouter(deps)

		Convey("When a volunteer is found", func() {
			deps.result = model.SearchResult{
				Found:      true,
				MatchCount: 1,
				Breakdown: model.Breakdown{
					DateGroups: []model.DateGroup{{
						RawDate:     "3/5/2024",
						DisplayDate: "Mar 5, 2024",
						HourDetails: []model.HourDetail{{Category: "Meeting Attendance", Hours: 1, Count: 1}},
					}},
					TotalHours:  1,
					AnnualHours: 1,
				},
			}
			w := do(r, http.MethodGet, "/lookup?name=Jane+Doe&id=123&birthdate=01/01/2012", nil)

			Convey("Then the breakdown is returned as JSON", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Header().Get("Content-Type"), ShouldEqual, "application/json; charset=utf-8")
				So(w.Header().Get(api.RequestIDHeader), ShouldNotBeEmpty)

				var body types.LookupResponse
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Found, ShouldBeTrue)
				So(body.TotalHours, ShouldEqual, 1)
				So(body.ByDate[0].Date, ShouldEqual, "Mar 5, 2024")
				So(deps.gotQuery, ShouldResemble, model.Query{Name: "Jane Doe", ID: "123", Birthdate: "01/01/2012"})
			})
		})

		Convey("When the caller supplies a request id", func() {
			deps.result = model.SearchResult{Found: true, MatchCount: 1}
			w := do(r, http.MethodGet, "/lookup?id=1", http.Header{api.RequestIDHeader: {"abc-123"}})

			Convey("Then it is echoed back", func() {
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})

		Convey("When the query is missing", func() {
			deps.err = service.ErrMissingQuery
			w := do(r, http.MethodGet, "/lookup", nil)

			Convey("Then it should return 400", func() {
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			})
		})

		Convey("When data has not loaded", func() {
			deps.err = service.ErrNotReady
			w := do(r, http.MethodGet, "/lookup?name=Jane", nil)

			Convey("Then it should return 503 with Retry-After", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
				So(w.Header().Get("Retry-After"), ShouldEqual, "30")
				So(decodeError(w)["code"], ShouldEqual, "not_ready")
			})
		})

		Convey("When nothing matches", func() {
			deps.result = model.SearchResult{}
			w := do(r, http.MethodGet, "/lookup?name=Nobody", nil)

			Convey("Then it should return 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["message"], ShouldEqual, "lookup: no volunteer records found")
			})
		})

		Convey("When the lookup fails unexpectedly", func() {
			deps.err = errors.New("boom")
			w := do(r, http.MethodGet, "/lookup?name=Jane", nil)

			Convey("Then it should return 500", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
			})
		})

		Convey("When using the wrong method", func() {
			w := do(r, http.MethodPost, "/lookup?name=Jane", nil)

			Convey("Then the router rejects it", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestEligibilityHandler(t *testing.T) {
	Convey("Given an API router", t, func() {
		deps := &mockDeps{}
		r := newRouter(deps)

		Convey("When birthdate and hours are valid", func() {
			w := do(r, http.MethodGet, "/eligibility?birthdate=01/01/2012&hours=60.5", nil)

			Convey("Then the evaluation is returned", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.gotBirthdate, ShouldEqual, "01/01/2012")
				So(deps.gotHours, ShouldEqual, 60.5)
				var body types.Eligibility
				So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
				So(body.Award, ShouldEqual, "Bronze")
			})
		})

		Convey("When the birthdate is missing", func() {
			w := do(r, http.MethodGet, "/eligibility?hours=10", nil)

			Convey("Then the reason is in a 200 body", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "Valid birthdate is required")
			})
		})

		Convey("When hours are missing or invalid", func() {
			So(do(r, http.MethodGet, "/eligibility?birthdate=01/01/2012", nil).Code, ShouldEqual, http.StatusBadRequest)
			So(do(r, http.MethodGet, "/eligibility?hours=lots", nil).Code, ShouldEqual, http.StatusBadRequest)
			So(do(r, http.MethodGet, "/eligibility?hours=-1", nil).Code, ShouldEqual, http.StatusBadRequest)
		})
	})
}

func TestPeriodHealthStatsMetrics(t *testing.T) {
	Convey("Given an API router", t, func() {
		target := time.Date(2025, time.September, 15, 23, 59, 59, 0, time.UTC)
		deps := &mockDeps{period: model.PeriodInfo{
			Period:    model.ApplicationPeriod{Status: model.PeriodDuring, TargetDate: target, Message: "Application Deadline:"},
			Remaining: model.TimeRemaining{Days: 5},
		}}
		r := newRouter(deps)

		Convey("Then /period reports the window", func() {
			w := do(r, http.MethodGet, "/period", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			var body types.PeriodResponse
			So(json.Unmarshal(w.Body.Bytes(), &body), ShouldBeNil)
			So(body.Status, ShouldEqual, "during")
			So(body.Countdown.Days, ShouldEqual, 5)
			So(body.TargetDate.Equal(target), ShouldBeTrue)
		})

		Convey("And /healthz answers ok", func() {
			w := do(r, http.MethodGet, "/healthz", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
		})

		Convey("And /stats returns provider stats", func() {
			w := do(r, http.MethodGet, "/stats", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"rows":3`)
		})

		Convey("And /metrics exposes request counters", func() {
			_ = do(r, http.MethodGet, "/healthz", nil)
			w := do(r, http.MethodGet, "/metrics", nil)
			So(w.Code, ShouldEqual, http.StatusOK)
			body, _ := io.ReadAll(w.Body)
			So(string(body), ShouldContainSubstring, "pvsa_hours_http_requests_total")
		})
	})
}

func TestKindErrors(t *testing.T) {
	Convey("Given kind-wrapped errors", t, func() {
		cause := errors.New("missing hours")
		wrapped := api.WrapKind("eligibility", api.ErrBadRequest, cause)
		bare := api.NewKind("lookup", api.ErrNotFound)

		Convey("Then both the kind and the cause match", func() {
			So(errors.Is(wrapped, api.ErrBadRequest), ShouldBeTrue)
			So(errors.Is(wrapped, cause), ShouldBeTrue)
			So(wrapped.Error(), ShouldEqual, "eligibility: bad request: missing hours")
			So(errors.Is(bare, api.ErrNotFound), ShouldBeTrue)
			So(bare.Error(), ShouldEqual, "lookup: no volunteer records found")
		})
	})
}
