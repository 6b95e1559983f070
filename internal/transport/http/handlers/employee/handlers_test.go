package employeehandler

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
)

func multipartRequest(t *testing.T, employeeJSON string, files map[string][]byte) *http.Request {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if err := writer.WriteField("employee", employeeJSON); err != nil {
		t.Fatalf("write field: %v", err)
	}
	for field, data := range files {
		part, err := writer.CreateFormFile(field, field+".png")
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(data); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/employees", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func TestParseMultipartBuildsAggregate(t *testing.T) {
	h := NewHandler(nil, 32<<20)

	payload := `{
		"name": "Maria Silva",
		"birthDate": "1990-05-01",
		"hireDate": "2020-03-15",
		"positionSalary": {"position": "Analyst", "salary": "5000", "role": {"name": "STAFF"}},
		"dependents": [{"name": "Ana", "birthDate": "2015-01-01", "relationship": "child"}]
	}`
	req := multipartRequest(t, payload, map[string][]byte{
		"file":               []byte("photo-bytes"),
		"dependents[0].file": []byte("dep-photo"),
	})

	rec := httptest.NewRecorder()
	emp, photo, dependentFiles, ok := h.parseMultipart(rec, req)
	if !ok {
		t.Fatalf("parse failed: %s", rec.Body.String())
	}

	if emp.Name != "Maria Silva" {
		t.Fatalf("unexpected name %q", emp.Name)
	}
	if emp.BirthDate == nil || emp.BirthDate.Year() != 1990 {
		t.Fatalf("birth date not parsed: %v", emp.BirthDate)
	}
	if emp.PositionSalary == nil || emp.PositionSalary.Position != "Analyst" {
		t.Fatalf("position salary not parsed: %+v", emp.PositionSalary)
	}
	if emp.PositionSalary.Role == nil || emp.PositionSalary.Role.Name != "STAFF" {
		t.Fatalf("role not parsed: %+v", emp.PositionSalary.Role)
	}
	if len(emp.Dependents) != 1 || emp.Dependents[0].Relationship == nil {
		t.Fatalf("dependent not parsed: %+v", emp.Dependents)
	}
	if string(*emp.Dependents[0].Relationship) != "CHILD" {
		t.Fatalf("relationship not normalized: %v", *emp.Dependents[0].Relationship)
	}
	if photo == nil || string(photo.Data) != "photo-bytes" {
		t.Fatalf("photo not read")
	}
	if upload := dependentFiles["dependents[0].file"]; upload == nil || string(upload.Data) != "dep-photo" {
		t.Fatalf("dependent file not correlated: %v", dependentFiles)
	}
}

func TestParseMultipartRejectsBadJSON(t *testing.T) {
	h := NewHandler(nil, 32<<20)

	req := multipartRequest(t, "{broken", nil)
	rec := httptest.NewRecorder()
	if _, _, _, ok := h.parseMultipart(rec, req); ok {
		t.Fatalf("broken JSON must be rejected")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestParseMultipartAccumulatesFieldIssues(t *testing.T) {
	h := NewHandler(nil, 32<<20)

	payload := `{
		"name": "",
		"birthDate": "bogus",
		"dependents": [{"name": "Ana", "relationship": "COUSIN"}]
	}`
	req := multipartRequest(t, payload, nil)
	rec := httptest.NewRecorder()
	if _, _, _, ok := h.parseMultipart(rec, req); ok {
		t.Fatalf("invalid payload must be rejected")
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Details struct {
				Fields []struct {
					Field string `json:"field"`
				} `json:"fields"`
			} `json:"details"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Error.Details.Fields) != 3 {
		t.Fatalf("expected 3 field issues, got %+v", envelope.Error.Details.Fields)
	}
}
