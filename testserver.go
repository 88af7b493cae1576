package chsql

import (
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"strconv"
	"strings"
	"sync"
)

// clickhouseHandler emulates the ClickHouse HTTP interface closely enough
// for end-to-end tests: SQL arrives in the POST body or the query parameter,
// the effective format comes from an in-SQL FORMAT clause or the request
// header, and the response echoes it in X-ClickHouse-Format. Individual
// behaviors can be overridden per test.
type clickhouseHandler struct {
	// optional override invoked instead of the canned query handling
	handleQuery func(w http.ResponseWriter, r *http.Request, sql string)

	// body served when the effective format is Parquet
	parquetBody []byte

	// databases that exist besides default
	databases map[string]bool

	// last request seen, for assertions
	mu          sync.Mutex
	lastRequest *http.Request
	lastBody    string
}

func startTestServer(h *clickhouseHandler) *httptest.Server {
	return httptest.NewServer(h)
}

var (
	formatClauseRE = regexp.MustCompile(`(?i)\bFORMAT\s+(\w+)\s*;?\s*$`)
	numbersRE      = regexp.MustCompile(`SELECT number FROM numbers LIMIT (\d+)`)
	placeholderRE  = regexp.MustCompile(`\{(\w+):[^}]*\}`)
)

func (h *clickhouseHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path == "/ping" {
		_, _ = io.WriteString(w, "Ok.\n")
		return
	}

	body, _ := io.ReadAll(r.Body)
	h.mu.Lock()
	h.lastRequest = r
	h.lastBody = string(body)
	h.mu.Unlock()

	q := r.URL.Query()
	if db := q.Get("database"); db != "" && db != "default" && !h.databases[db] {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, "Code: 81. DB::Exception: Database "+db+" does not exist. (UNKNOWN_DATABASE)")
		return
	}

	sql := string(body)
	if sql == "" {
		sql = q.Get("query")
	}
	if sql == "" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Code: 62. DB::Exception: Empty query")
		return
	}

	// an in-SQL FORMAT clause overrides the requested header, exactly like
	// the real server
	format := r.Header.Get("X-ClickHouse-Format")
	if m := formatClauseRE.FindStringSubmatch(sql); m != nil {
		format = m[1]
		sql = strings.TrimSpace(formatClauseRE.ReplaceAllString(sql, ""))
	}
	if format == "" {
		format = "TabSeparated"
	}
	w.Header().Set("X-ClickHouse-Format", format)

	if h.handleQuery != nil {
		h.handleQuery(w, r, sql)
		return
	}

	if format == "Parquet" {
		_, _ = w.Write(h.parquetBody)
		return
	}

	// substitute {name:Type} placeholders from param_* pairs
	sql = placeholderRE.ReplaceAllStringFunc(sql, func(m string) string {
		name := placeholderRE.FindStringSubmatch(m)[1]
		return q.Get("param_" + name)
	})

	var rows [][]string
	switch {
	case numbersRE.MatchString(sql):
		n, _ := strconv.Atoi(numbersRE.FindStringSubmatch(sql)[1])
		for i := 0; i < n; i++ {
			rows = append(rows, []string{strconv.Itoa(i)})
		}
	case strings.HasPrefix(sql, "SELECT "):
		cells := strings.Split(strings.TrimPrefix(sql, "SELECT "), ", ")
		rows = append(rows, cells)
	default:
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, "Code: 62. DB::Exception: Syntax error")
		return
	}

	sep := "\t"
	if format == "CSV" {
		sep = ","
	}
	for _, row := range rows {
		_, _ = io.WriteString(w, strings.Join(row, sep)+"\n")
	}
}
