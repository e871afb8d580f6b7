package officer_test

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"

	"github.com/frahmantamala/geofence-security/internal"
	"github.com/frahmantamala/geofence-security/internal/officer"
	officerPostgres "github.com/frahmantamala/geofence-security/internal/officer/postgres"
	"github.com/frahmantamala/geofence-security/internal/transport"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("Officer Handler Integration", func() {
	var (
		f      *fixture
		router chi.Router
	)

	BeforeEach(func() {
		f = newFixture()
		slogger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
		service := officer.NewService(officerPostgres.NewOfficerRepository(f.db), slogger)
		handler := officer.NewHandler(transport.NewBaseHandler(slogger), service)

		router = chi.NewRouter()
		router.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				next.ServeHTTP(w, r.WithContext(internal.ContextWithActor(r.Context(), f.subAdmin)))
			})
		})
		router.Get("/officers", handler.List)
		router.Post("/officers", handler.Create)
		router.Get("/officers/{id}", handler.Get)
	})

	It("ignores a client supplied organization on POST /officers", func() {
		body, _ := json.Marshal(map[string]interface{}{
			"name":         "Kim",
			"contact":      "555",
			"organization": f.orgB.ID,
		})
		req := httptest.NewRequest(http.MethodPost, "/officers", bytes.NewReader(body))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var created officer.SecurityOfficer
		Expect(json.NewDecoder(w.Body).Decode(&created)).To(Succeed())
		Expect(created.OrganizationID).To(Equal(f.orgA.ID))
	})

	It("answers 400 with field errors for invalid payloads", func() {
		req := httptest.NewRequest(http.MethodPost, "/officers", bytes.NewReader([]byte(`{"name":""}`)))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring("VALIDATION_FAILED"))
	})

	It("answers 404 for unknown ids", func() {
		req := httptest.NewRequest(http.MethodGet, "/officers/999", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("returns the paginated envelope", func() {
		req := httptest.NewRequest(http.MethodGet, "/officers?page_size=5", nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)

		Expect(w.Code).To(Equal(http.StatusOK))
		var resp transport.ListResponse
		Expect(json.NewDecoder(w.Body).Decode(&resp)).To(Succeed())
		Expect(resp.PageSize).To(Equal(5))
		Expect(resp.Count).To(BeZero())
	})
})
