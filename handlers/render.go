package handlers

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"overtimepay/calc"
	"overtimepay/config"
	"overtimepay/export"
	"overtimepay/middleware"

	"github.com/rs/zerolog/log"
)

// ConfidentialCookie holds "1" while monetary values are masked.
const ConfidentialCookie = "confidential"

// now is replaced in tests.
var now = time.Now

type pages struct {
	config    *config.Config
	templates map[string]*template.Template
}

func isConfidential(r *http.Request) bool {
	c, err := r.Cookie(ConfidentialCookie)
	return err == nil && c.Value == "1"
}

func (p pages) render(w http.ResponseWriter, r *http.Request, name string, data map[string]interface{}) {
	tmpl, ok := p.templates[name]
	if !ok {
		log.Error().Str("template", name).Msg("template not found")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	if data == nil {
		data = map[string]interface{}{}
	}
	data["User"] = middleware.GetUserFromContext(r.Context())
	data["Company"] = p.config.CompanyName
	data["Confidential"] = isConfidential(r)
	if _, ok := data["Error"]; !ok {
		data["Error"] = r.URL.Query().Get("error")
	}
	if _, ok := data["Success"]; !ok {
		data["Success"] = r.URL.Query().Get("success")
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "base", data); err != nil {
		log.Error().Err(err).Str("template", name).Msg("render failed")
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// place is the "City, 19 de outubro de 2026" line printed on reports.
func (p pages) place() string {
	return p.config.ReceiptCity + ", " + export.LongDateBR(now())
}

func withFlash(path, key, msg string) string {
	sep := "?"
	if strings.Contains(path, "?") {
		sep = "&"
	}
	return path + sep + key + "=" + url.QueryEscape(msg)
}

func redirectError(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, withFlash(path, "error", msg), http.StatusSeeOther)
}

func redirectSuccess(w http.ResponseWriter, r *http.Request, path, msg string) {
	http.Redirect(w, r, withFlash(path, "success", msg), http.StatusSeeOther)
}

// redirectBatchResult reports a finished batch write. Rows that failed are
// listed on the batch page when nothing was written, otherwise on listPath
// alongside the written count.
func redirectBatchResult(w http.ResponseWriter, r *http.Request, batchPath, listPath, noun string, written, total int, err error) {
	if err == nil {
		redirectSuccess(w, r, listPath, "Imported "+noun+": "+strconv.Itoa(written))
		return
	}
	failed := strings.ReplaceAll(err.Error(), "\n", "; ")
	if written == 0 {
		redirectError(w, r, batchPath, "Import failed: "+failed)
		return
	}
	redirectError(w, r, listPath, "Imported "+noun+": "+strconv.Itoa(written)+" of "+strconv.Itoa(total)+". Failed: "+failed)
}

func serverError(w http.ResponseWriter, err error, msg string) {
	log.Error().Err(err).Msg(msg)
	http.Error(w, "Internal Server Error", http.StatusInternalServerError)
}

// parseFilter reads employee, start and end from the query string. With
// monthDefault the current month applies when neither bound was sent.
func parseFilter(r *http.Request, monthDefault bool) calc.Filter {
	q := r.URL.Query()
	f := calc.Filter{
		EmployeeID: q.Get("employee"),
		StartDate:  q.Get("start"),
		EndDate:    q.Get("end"),
	}
	if f.EmployeeID == "" {
		f.EmployeeID = calc.AllEmployees
	}
	if monthDefault && !q.Has("start") && !q.Has("end") {
		f.StartDate, f.EndDate = calc.MonthRange(now())
	}
	return f
}

// localPath keeps only the path and query of a referer so toggles never
// redirect off-site.
func localPath(ref, fallback string) string {
	u, err := url.Parse(ref)
	if err != nil || u.Path == "" || !strings.HasPrefix(u.Path, "/") {
		return fallback
	}
	if u.RawQuery != "" {
		return u.Path + "?" + u.RawQuery
	}
	return u.Path
}

type apiError struct {
	Code   int    `json:"code"`
	Status string `json:"status"`
}

type apiResponse struct {
	Status  string    `json:"status"`
	Message string    `json:"message,omitempty"`
	Data    any       `json:"data,omitempty"`
	Error   *apiError `json:"error,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(apiResponse{Status: "success", Data: payload}); err != nil {
		log.Error().Err(err).Msg("encode response")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(apiResponse{
		Status:  "error",
		Message: message,
		Error:   &apiError{Code: status, Status: http.StatusText(status)},
	})
}

func sendFile(w http.ResponseWriter, contentType, filename string, body []byte) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", "attachment; filename="+filename)
	w.Write(body)
}
