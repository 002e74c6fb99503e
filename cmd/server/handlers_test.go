//go:build cgo

package main

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/brunobiangulo/dmforge"
	"github.com/brunobiangulo/dmforge/store"
)

const sampleManual = "[PAGE_1]\n" +
	"GENERAL INFORMATION\n" +
	"The aircraft entered service in nineteen eighty.\n" +
	"[PAGE_2]\n" +
	"It remains in service with many operators worldwide.\n" +
	"[PAGE_3]\n" +
	"TECHNICAL DATA\n" +
	"Maximum speed exceeds mach two at altitude.\n" +
	"[PAGE_4]\n" +
	"See FIGURE 3 for the performance chart.\n"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	pipeline, err := dmforge.New(dmforge.Config{Date: "2024-01-15"})
	if err != nil {
		t.Fatalf("building pipeline: %v", err)
	}

	dir := t.TempDir()
	st, err := store.New(filepath.Join(dir, "runs.db"))
	if err != nil {
		t.Fatalf("opening store: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	srv := httptest.NewServer(newMux(newHandler(pipeline, st, filepath.Join(dir, "data"))))
	t.Cleanup(srv.Close)
	return srv
}

func postConvert(t *testing.T, srv *httptest.Server, filename, content string, fields map[string]string) *http.Response {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if filename != "" {
		fw, err := mw.CreateFormFile("file", filename)
		if err != nil {
			t.Fatalf("creating form file: %v", err)
		}
		if _, err := fw.Write([]byte(content)); err != nil {
			t.Fatalf("writing form file: %v", err)
		}
	}
	for k, v := range fields {
		if err := mw.WriteField(k, v); err != nil {
			t.Fatalf("writing field %s: %v", k, err)
		}
	}
	if err := mw.Close(); err != nil {
		t.Fatalf("closing multipart writer: %v", err)
	}

	resp, err := http.Post(srv.URL+"/convert", mw.FormDataContentType(), &buf)
	if err != nil {
		t.Fatalf("POST /convert: %v", err)
	}
	return resp
}

func getStatus(t *testing.T, url string, want int) *http.Response {
	t.Helper()
	resp, err := http.Get(url)
	if err != nil {
		t.Fatalf("GET %s: %v", url, err)
	}
	if resp.StatusCode != want {
		resp.Body.Close()
		t.Fatalf("GET %s status = %d, want %d", url, resp.StatusCode, want)
	}
	return resp
}

func decodeRun(t *testing.T, resp *http.Response) store.Run {
	t.Helper()
	defer resp.Body.Close()
	var run store.Run
	if err := json.NewDecoder(resp.Body).Decode(&run); err != nil {
		t.Fatalf("decoding run: %v", err)
	}
	return run
}

type convertResult struct {
	RunID          string         `json:"run_id"`
	ModuleCount    int            `json:"module_count"`
	Modules        []store.Module `json:"modules"`
	DownloadURL    string         `json:"download_url"`
	ProcessingTime string         `json:"processing_time"`
}

func decodeConvert(t *testing.T, resp *http.Response) convertResult {
	t.Helper()
	defer resp.Body.Close()
	var res convertResult
	if err := json.NewDecoder(resp.Body).Decode(&res); err != nil {
		t.Fatalf("decoding convert response: %v", err)
	}
	return res
}

func TestConvertLifecycle(t *testing.T) {
	srv := newTestServer(t)

	resp := postConvert(t, srv, "f16_manual.txt", sampleManual, nil)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /convert status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	res := decodeConvert(t, resp)

	if res.ModuleCount != 2 || len(res.Modules) != 2 {
		t.Fatalf("convert returned %d modules (%d listed), want 2", res.ModuleCount, len(res.Modules))
	}
	if want := "/runs/" + res.RunID + "/archive"; res.DownloadURL != want {
		t.Errorf("download_url = %q, want %q", res.DownloadURL, want)
	}
	if res.ProcessingTime == "" {
		t.Error("processing_time is empty")
	}

	// The run is fetchable on its own.
	run := decodeRun(t, getStatus(t, srv.URL+"/runs/"+res.RunID, http.StatusOK))
	if run.Status != "done" {
		t.Errorf("run.Status = %q, want %q", run.Status, "done")
	}
	if run.Source != "f16_manual.txt" {
		t.Errorf("run.Source = %q, want %q", run.Source, "f16_manual.txt")
	}
	if run.Modules != 2 || run.Pages != 4 {
		t.Errorf("run = %d modules over %d pages, want 2 over 4", run.Modules, run.Pages)
	}

	// Its modules are listed in sequence order.
	resp = getStatus(t, srv.URL+"/runs/"+run.ID+"/modules", http.StatusOK)
	var listing struct {
		Modules []store.Module `json:"modules"`
		Count   int            `json:"count"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&listing); err != nil {
		t.Fatalf("decoding modules: %v", err)
	}
	resp.Body.Close()
	if listing.Count != 2 {
		t.Fatalf("modules count = %d, want 2", listing.Count)
	}
	if want := "dm_001_GENERAL_INFORMATION.xml"; listing.Modules[0].Filename != want {
		t.Errorf("modules[0].Filename = %q, want %q", listing.Modules[0].Filename, want)
	}

	// The rendered XML is served per module.
	resp = getStatus(t, srv.URL+"/runs/"+run.ID+"/modules/dm_001_GENERAL_INFORMATION.xml", http.StatusOK)
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("reading module body: %v", err)
	}
	if !strings.Contains(string(body), "<dm xmlns=") {
		t.Errorf("module body does not look like a data module: %.80s", body)
	}

	// The archive bundles the modules plus the four report artifacts.
	resp = getStatus(t, srv.URL+"/runs/"+run.ID+"/archive", http.StatusOK)
	raw, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		t.Fatalf("reading archive: %v", err)
	}
	zr, err := zip.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		t.Fatalf("opening archive: %v", err)
	}
	if len(zr.File) != 6 {
		t.Errorf("archive holds %d files, want 6", len(zr.File))
	}
	names := make(map[string]bool, len(zr.File))
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"module_list.csv", "module_list.xlsx", "README.txt", "processing_report.txt"} {
		if !names[want] {
			t.Errorf("archive missing %s", want)
		}
	}

	// Deleting the run removes it and its output.
	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/runs/"+run.ID, nil)
	if err != nil {
		t.Fatalf("building DELETE request: %v", err)
	}
	del, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("DELETE run: %v", err)
	}
	del.Body.Close()
	if del.StatusCode != http.StatusOK {
		t.Fatalf("DELETE status = %d, want %d", del.StatusCode, http.StatusOK)
	}
	getStatus(t, srv.URL+"/runs/"+run.ID, http.StatusNotFound).Body.Close()
}

func TestConvertModeOverride(t *testing.T) {
	srv := newTestServer(t)

	resp := postConvert(t, srv, "manual.txt", sampleManual, map[string]string{"mode": "full"})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("POST /convert status = %d, want %d", resp.StatusCode, http.StatusCreated)
	}
	res := decodeConvert(t, resp)

	run := decodeRun(t, getStatus(t, srv.URL+"/runs/"+res.RunID, http.StatusOK))
	if run.Mode != "full" || run.IDWidth != 5 {
		t.Errorf("run mode = %q width %d, want full 5", run.Mode, run.IDWidth)
	}
	if run.Status != "done" {
		t.Errorf("run.Status = %q, want %q", run.Status, "done")
	}
}

func TestConvertRejectsBadOverrides(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name   string
		fields map[string]string
	}{
		{name: "unknown_mode", fields: map[string]string{"mode": "turbo"}},
		{name: "bad_id_width", fields: map[string]string{"id_width": "wide"}},
		{name: "bad_skip_merge", fields: map[string]string{"skip_merge": "maybe"}},
		{name: "bad_date", fields: map[string]string{"date": "15-01-2024"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postConvert(t, srv, "manual.txt", sampleManual, tt.fields)
			resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
			}
		})
	}
}

func TestConvertMissingFile(t *testing.T) {
	srv := newTestServer(t)

	resp := postConvert(t, srv, "", "", map[string]string{"mode": "smart"})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestConvertRecordsFailedRun(t *testing.T) {
	srv := newTestServer(t)

	// No headings at all: the pipeline rejects the document.
	resp := postConvert(t, srv, "prose.txt", "[PAGE_1]\nplain body text without any heading structure.\n", nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusUnprocessableEntity)
	}

	listResp := getStatus(t, srv.URL+"/runs", http.StatusOK)
	var listing struct {
		Runs  []store.Run `json:"runs"`
		Count int         `json:"count"`
	}
	if err := json.NewDecoder(listResp.Body).Decode(&listing); err != nil {
		t.Fatalf("decoding runs: %v", err)
	}
	listResp.Body.Close()
	if listing.Count != 1 {
		t.Fatalf("runs count = %d, want 1", listing.Count)
	}
	if listing.Runs[0].Status != "error" || listing.Runs[0].Error == "" {
		t.Errorf("run = %q/%q, want an error status with a message", listing.Runs[0].Status, listing.Runs[0].Error)
	}
}

func TestGetRunNotFound(t *testing.T) {
	srv := newTestServer(t)
	getStatus(t, srv.URL+"/runs/no-such-run", http.StatusNotFound).Body.Close()
	getStatus(t, srv.URL+"/runs/no-such-run/modules", http.StatusNotFound).Body.Close()
	getStatus(t, srv.URL+"/runs/no-such-run/archive", http.StatusNotFound).Body.Close()
}

func TestHealth(t *testing.T) {
	srv := newTestServer(t)

	postConvert(t, srv, "manual.txt", sampleManual, nil).Body.Close()

	resp := getStatus(t, srv.URL+"/health", http.StatusOK)
	var health struct {
		Status  string `json:"status"`
		Runs    int    `json:"runs"`
		Modules int    `json:"modules"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&health); err != nil {
		t.Fatalf("decoding health: %v", err)
	}
	resp.Body.Close()
	if health.Status != "ok" || health.Runs != 1 || health.Modules != 2 {
		t.Errorf("health = %+v, want ok with 1 run and 2 modules", health)
	}
}
