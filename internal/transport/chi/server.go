package chi

import (
	"encoding/json"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"

	domemp "github.com/tananushka/employees/internal/domain/employee"
	"github.com/tananushka/employees/internal/metrics"
	employeeuc "github.com/tananushka/employees/internal/usecase/employee"
	healthuc "github.com/tananushka/employees/internal/usecase/health"
)

// maxBodyBytes caps an employee request body.
const maxBodyBytes = 1 << 20

// Server serves the employee REST API.
type Server struct {
	employees     *employeeuc.Service
	health        *healthuc.Service
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(employees *employeeuc.Service, health *healthuc.Service) *Server {
	return &Server{
		employees:     employees,
		health:        health,
		errorHandlers: defaultErrorHandlers(),
	}
}

// Routes registers the API endpoints on r.
func (s *Server) Routes(r chi.Router) {
	r.Get("/health", s.HealthCheck)
	r.Method(http.MethodGet, "/metrics", metrics.Handler())

	r.Route("/api/employees", func(r chi.Router) {
		r.Get("/", s.ListEmployees)
		r.Post("/", s.CreateEmployee)
		r.Get("/search", s.SearchEmployees)
		r.Get("/aggregate", s.AggregateEmployees)
		r.Get("/{id}", s.GetEmployee)
		r.Post("/{id}", s.PutEmployee)
		r.Delete("/{id}", s.DeleteEmployee)
	})
}

// CreateResponse is the body of POST /api/employees.
type CreateResponse struct {
	ID     string         `json:"id"`
	Result domemp.Outcome `json:"result"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status healthuc.Status                 `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

// ListEmployees handles GET /api/employees.
func (s *Server) ListEmployees(w http.ResponseWriter, r *http.Request) {
	page, ok := bindPage(w, r.URL.Query())
	if !ok {
		return
	}

	list, err := s.employees.List(r.Context(), page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// CreateEmployee handles POST /api/employees. The id is generated.
func (s *Server) CreateEmployee(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeEmployee(w, r)
	if !ok {
		return
	}

	id, out, err := s.employees.Create(r.Context(), e)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	w.Header().Set("Location", employeeLocation(id))
	writeJSON(w, http.StatusCreated, CreateResponse{ID: id, Result: out})
}

// GetEmployee handles GET /api/employees/{id}.
func (s *Server) GetEmployee(w http.ResponseWriter, r *http.Request) {
	e, err := s.employees.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, e)
}

// PutEmployee handles POST /api/employees/{id}: create or replace.
func (s *Server) PutEmployee(w http.ResponseWriter, r *http.Request) {
	e, ok := decodeEmployee(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	out, err := s.employees.Put(r.Context(), id, e)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if out == domemp.Created {
		status = http.StatusCreated
		w.Header().Set("Location", employeeLocation(id))
	}
	writeText(w, status, string(out))
}

// DeleteEmployee handles DELETE /api/employees/{id}.
func (s *Server) DeleteEmployee(w http.ResponseWriter, r *http.Request) {
	out, err := s.employees.Delete(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}

	status := http.StatusOK
	if out == domemp.NotFound {
		status = http.StatusNotFound
	}
	writeText(w, status, string(out))
}

// SearchEmployees handles GET /api/employees/search.
func (s *Server) SearchEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var field, value, queryType string
	if !bindRequired(w, q, "field", &field) ||
		!bindRequired(w, q, "value", &value) ||
		!bindRequired(w, q, "queryType", &queryType) {
		return
	}
	page, ok := bindPage(w, q)
	if !ok {
		return
	}

	list, err := s.employees.Search(r.Context(), field, value, queryType, page)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// AggregateEmployees handles GET /api/employees/aggregate. The body is a
// JSON number, or null when nothing matched.
func (s *Server) AggregateEmployees(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var field, fieldValue, metricType, metricField string
	if !bindRequired(w, q, "field", &field) ||
		!bindRequired(w, q, "fieldValue", &fieldValue) ||
		!bindRequired(w, q, "metricType", &metricType) ||
		!bindRequired(w, q, "metricField", &metricField) {
		return
	}

	v, err := s.employees.Aggregate(r.Context(), field, fieldValue, metricType, metricField)
	if err != nil {
		s.handleDomainError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

// HealthCheck handles GET /health.
func (s *Server) HealthCheck(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, HealthResponse{
		Status: report.Status,
		Checks: report.Checks,
	})
}

func bindPage(w http.ResponseWriter, q url.Values) (employeeuc.Page, bool) {
	var p employeeuc.Page
	if err := runtime.BindQueryParameter("form", true, false, "page", q, &p.Page); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter page: "+err.Error())
		return p, false
	}
	if err := runtime.BindQueryParameter("form", true, false, "size", q, &p.Size); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid parameter size: "+err.Error())
		return p, false
	}
	return p, true
}

func bindRequired(w http.ResponseWriter, q url.Values, name string, dest *string) bool {
	if err := runtime.BindQueryParameter("form", true, true, name, q, dest); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, err.Error())
		return false
	}
	return true
}

func decodeEmployee(w http.ResponseWriter, r *http.Request) (domemp.Employee, bool) {
	var e domemp.Employee
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&e); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return domemp.Employee{}, false
	}
	return e, true
}

func employeeLocation(id string) string {
	return "/api/employees/" + url.PathEscape(id)
}
