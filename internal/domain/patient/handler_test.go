package patient

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
)

func newTestHandler() (*Handler, *Service) {
	svc, _, _ := newTestService()
	return NewHandler(svc), svc
}

func doRequest(h *Handler, method, target, body string) *httptest.ResponseRecorder {
	e := echo.New()
	g := e.Group("")
	h.RegisterRoutes(g)

	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestListPatients_Empty(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(h, http.MethodGet, "/patients", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp struct {
		Data  []json.RawMessage `json:"data"`
		Total int               `json:"total"`
		Pages int               `json:"pages"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Total != 0 || len(resp.Data) != 0 {
		t.Errorf("expected empty listing, got %+v", resp)
	}
	if resp.Pages != 1 {
		t.Errorf("pages = %d, want 1 even when empty", resp.Pages)
	}
}

func TestRegisterPatient(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(h, http.MethodPost, "/patients",
		`{"first_name":"Иван","last_name":"Петров","birth_date":"01.01.2000"}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = doRequest(h, http.MethodGet, "/patients", "")
	var resp struct {
		Data []struct {
			BirthDate string `json:"birth_date"`
		} `json:"data"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if len(resp.Data) != 1 || resp.Data[0].BirthDate != "2000-01-01" {
		t.Errorf("listed birth date not normalized: %s", rec.Body.String())
	}
}

func TestRegisterPatient_ValidationFailure(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(h, http.MethodPost, "/patients",
		`{"first_name":"И","last_name":"Петров","birth_date":"01.01.2000"}`)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestDeletePatient_Idempotent(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(h, http.MethodDelete, "/patients/99", "")
	if rec.Code != http.StatusNoContent {
		t.Errorf("deleting unknown patient: status = %d, want 204", rec.Code)
	}
}

func TestPatientCard_NotFound(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(h, http.MethodGet, "/patients/7", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestPatientCard(t *testing.T) {
	h, svc := newTestHandler()
	svc.Register(context.Background(), "Иван", "Петров", "01.01.2000")
	svc.Assign(context.Background(), 1, "ОРВИ", "2023-01-10")

	rec := doRequest(h, http.MethodGet, "/patients/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Patient struct {
			BirthDate string `json:"birth_date"`
		} `json:"patient"`
		Diagnoses struct {
			Data []struct {
				Diagnosis string `json:"diagnosis"`
				Date      string `json:"diagnosis_date"`
			} `json:"data"`
			Pages int `json:"pages"`
		} `json:"diagnoses"`
		Suggestions []string `json:"suggestions"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp.Patient.BirthDate != "2000-01-01" {
		t.Errorf("patient birth_date = %s", resp.Patient.BirthDate)
	}
	if len(resp.Diagnoses.Data) != 1 || resp.Diagnoses.Data[0].Diagnosis != "ОРВИ" {
		t.Errorf("unexpected history: %s", rec.Body.String())
	}
	if resp.Diagnoses.Data[0].Date != "2023-01-10" {
		t.Errorf("history date = %s, want 2023-01-10", resp.Diagnoses.Data[0].Date)
	}
	if len(resp.Suggestions) != 1 || resp.Suggestions[0] != "ОРВИ" {
		t.Errorf("unexpected suggestions: %v", resp.Suggestions)
	}
}

func TestAssignDiagnosis(t *testing.T) {
	h, svc := newTestHandler()
	svc.Register(context.Background(), "Иван", "Петров", "01.01.2000")

	rec := doRequest(h, http.MethodPost, "/patients/1/diagnoses",
		`{"diagnosis":"ОРВИ","diagnosis_date":"2023-01-10"}`)
	if rec.Code != http.StatusCreated {
		t.Errorf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
}

func TestAssignDiagnosis_UnknownPatient(t *testing.T) {
	h, _ := newTestHandler()

	rec := doRequest(h, http.MethodPost, "/patients/9/diagnoses",
		`{"diagnosis":"ОРВИ","diagnosis_date":"2023-01-10"}`)
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404", rec.Code)
	}
}

func TestUnassign_BothEntryPoints(t *testing.T) {
	h, svc := newTestHandler()
	svc.Register(context.Background(), "Иван", "Петров", "01.01.2000")
	svc.Assign(context.Background(), 1, "ОРВИ", "2023-01-10")
	svc.Assign(context.Background(), 1, "Грипп", "2023-02-10")

	rec := doRequest(h, http.MethodDelete, "/assignments/1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var resp map[string]int64
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("bad response body: %v", err)
	}
	if resp["patient_id"] != 1 {
		t.Errorf("patient_id = %d, want 1", resp["patient_id"])
	}

	rec = doRequest(h, http.MethodDelete, "/patients/1/diagnoses/2", "")
	if rec.Code != http.StatusOK {
		t.Errorf("scoped unassign: status = %d, want 200", rec.Code)
	}

	rec = doRequest(h, http.MethodDelete, "/assignments/1", "")
	if rec.Code != http.StatusNotFound {
		t.Errorf("repeat unassign: status = %d, want 404", rec.Code)
	}
}

func TestListPatients_PageDefaulting(t *testing.T) {
	h, svc := newTestHandler()
	svc.Register(context.Background(), "Иван", "Петров", "01.01.2000")

	for _, target := range []string{"/patients?page=abc", "/patients?page=-1", "/patients?page=0"} {
		rec := doRequest(h, http.MethodGet, target, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("%s: status = %d, want 200", target, rec.Code)
		}
		var resp struct {
			Page int `json:"page"`
		}
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatalf("bad response body: %v", err)
		}
		if resp.Page != 1 {
			t.Errorf("%s: page = %d, want 1", target, resp.Page)
		}
	}
}
