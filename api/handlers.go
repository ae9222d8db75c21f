package api

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"

	"github.com/lookbusy1344/uxn-assembler/asm"
	"github.com/lookbusy1344/uxn-assembler/parser"
	"github.com/lookbusy1344/uxn-assembler/reporter"
)

// handleHealth responds to health checks
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Version: Version})
}

// handleAssemble assembles the posted source and returns the ROM with all
// diagnostics.
func (s *Server) handleAssemble(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	body, err := io.ReadAll(io.LimitReader(r.Body, int64(s.maxSourceSize)+1))
	if err != nil {
		http.Error(w, "failed to read request body", http.StatusBadRequest)
		return
	}
	if len(body) > s.maxSourceSize {
		http.Error(w, "source too large", http.StatusRequestEntityTooLarge)
		return
	}

	var req AssembleRequest
	if err := json.Unmarshal(body, &req); err != nil {
		http.Error(w, "invalid JSON payload", http.StatusBadRequest)
		return
	}

	writeJSON(w, http.StatusOK, assembleToResponse([]byte(req.Source)))
}

// assembleToResponse runs the pipeline and flattens the outcome into the
// wire model.
func assembleToResponse(source []byte) AssembleResponse {
	result, diags := asm.Assemble(source)
	rep := reporter.New("input.tal", source, false)

	resp := AssembleResponse{
		Success:  !diags.HasErrors(),
		Errors:   diagnosticsFor(rep, diags.Errors, nil),
		Warnings: diagnosticsFor(rep, nil, diags.Warnings),
	}
	if result != nil {
		resp.ROM = base64.StdEncoding.EncodeToString(result.ROM)
		resp.Size = len(result.ROM)
		resp.Symbols = make(map[string]uint16, result.Symbols.Len())
		for _, id := range result.Symbols.All() {
			def, _ := result.Symbols.Lookup(id)
			resp.Symbols[id.String()] = def.Address
		}
	}
	return resp
}

// diagnosticsFor converts either an error list or a warning list into the
// wire model, resolving spans to line and column.
func diagnosticsFor(rep *reporter.Reporter, errors []*parser.Error, warnings []*parser.Warning) []Diagnostic {
	var out []Diagnostic
	for _, err := range errors {
		span := err.AllSpans()[0]
		line, column := rep.Position(span.From)
		out = append(out, Diagnostic{
			Severity: "error",
			Message:  err.Error(),
			From:     span.From,
			To:       span.To,
			Line:     line,
			Column:   column,
		})
	}
	for _, warning := range warnings {
		line, column := rep.Position(warning.Span.From)
		out = append(out, Diagnostic{
			Severity: "warning",
			Message:  warning.String(),
			From:     warning.Span.From,
			To:       warning.Span.To,
			Line:     line,
			Column:   column,
		})
	}
	return out
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// Headers are already written at this point; encoding errors only mean
	// the client went away.
	_ = json.NewEncoder(w).Encode(payload)
}
