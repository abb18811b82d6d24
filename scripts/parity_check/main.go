package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"
)

// ignoredFields never take part in body comparison.
var ignoredFields = map[string]struct{}{
	"__v":          {},
	"password":     {},
	"passwordHash": {},
	"createdAt":    {},
	"updatedAt":    {},
	"meta":         {},
	"pagination":   {},
}

type target struct {
	Method   string `json:"method"`
	Path     string `json:"path"`
	Critical bool   `json:"critical"`
}

type targetFile struct {
	Targets []target `json:"targets"`
}

type comparison struct {
	Target         target
	LegacyStatus   int
	GoStatus       int
	StatusMatch    bool
	BodyMatch      bool
	Error          error
	DurationGo     time.Duration
	DurationLegacy time.Duration
}

func main() {
	var (
		goBase      string
		legacyBase  string
		targetsPath string
		token       string
		timeout     time.Duration
	)

	flag.StringVar(&goBase, "go-base", "http://localhost:8080/api/v1", "Go API base URL")
	flag.StringVar(&legacyBase, "legacy-base", "http://localhost:5000/api", "Legacy API base URL")
	flag.StringVar(&targetsPath, "targets", filepath.Join("scripts", "parity_check", "targets.json"), "Path to JSON targets file")
	flag.StringVar(&token, "token", os.Getenv("PARITY_TOKEN"), "Bearer token sent to both APIs")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	targets, err := loadTargets(targetsPath)
	if err != nil {
		log.Fatalf("failed to load targets: %v", err)
	}

	client := &http.Client{Timeout: timeout}
	var (
		comparisons  []comparison
		breaking     int
		optionalDiff int
	)

	for _, t := range targets {
		comp := compareTarget(client, goBase, legacyBase, token, t)
		switch {
		case comp.Error != nil:
			if t.Critical {
				breaking++
			}
		case !comp.StatusMatch || !comp.BodyMatch:
			if t.Critical {
				breaking++
			} else {
				optionalDiff++
			}
		}
		comparisons = append(comparisons, comp)
	}

	printReport(comparisons)

	fmt.Printf("Breaking diffs: %d, Optional diffs: %d\n", breaking, optionalDiff)
	if breaking > 0 {
		os.Exit(1)
	}
}

func loadTargets(path string) ([]target, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var file targetFile
	if err := json.Unmarshal(data, &file); err != nil {
		return nil, err
	}
	if len(file.Targets) == 0 {
		return nil, fmt.Errorf("no targets defined in %s", path)
	}
	return file.Targets, nil
}

func compareTarget(client *http.Client, goBase, legacyBase, token string, tgt target) comparison {
	comp := comparison{Target: tgt}
	goBody, goStatus, goDur, goErr := fetch(client, goBase, token, tgt)
	legacyBody, legacyStatus, legacyDur, legacyErr := fetch(client, legacyBase, token, tgt)
	comp.DurationGo = goDur
	comp.DurationLegacy = legacyDur

	if goErr != nil {
		comp.Error = fmt.Errorf("go request failed: %w", goErr)
		return comp
	}
	if legacyErr != nil {
		comp.Error = fmt.Errorf("legacy request failed: %w", legacyErr)
		return comp
	}

	comp.GoStatus = goStatus
	comp.LegacyStatus = legacyStatus
	comp.StatusMatch = goStatus == legacyStatus
	comp.BodyMatch = bodiesEqual(goBody, legacyBody)
	return comp
}

func fetch(client *http.Client, base, token string, tgt target) ([]byte, int, time.Duration, error) {
	if client == nil {
		return nil, 0, 0, errors.New("nil client")
	}
	method := strings.ToUpper(strings.TrimSpace(tgt.Method))
	if method == "" {
		method = http.MethodGet
	}
	path := tgt.Path
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	req, err := http.NewRequest(method, strings.TrimRight(base, "/")+path, nil)
	if err != nil {
		return nil, 0, 0, err
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	start := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, 0, 0, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, resp.StatusCode, time.Since(start), fmt.Errorf("read body: %w", err)
	}
	return body, resp.StatusCode, time.Since(start), nil
}

// bodiesEqual compares two payloads after unwrapping {data: ...} envelopes, renaming _id to id
// and dropping volatile fields.
func bodiesEqual(a, b []byte) bool {
	if bytes.Equal(bytes.TrimSpace(a), bytes.TrimSpace(b)) {
		return true
	}

	var aj, bj interface{}
	if err := json.Unmarshal(a, &aj); err != nil {
		return false
	}
	if err := json.Unmarshal(b, &bj); err != nil {
		return false
	}
	aj = normalize(unwrap(aj))
	bj = normalize(unwrap(bj))
	return reflect.DeepEqual(aj, bj)
}

func unwrap(v interface{}) interface{} {
	if obj, ok := v.(map[string]interface{}); ok {
		if data, exists := obj["data"]; exists {
			return data
		}
	}
	return v
}

func normalize(v interface{}) interface{} {
	switch val := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(val))
		for k, child := range val {
			if _, skip := ignoredFields[k]; skip {
				continue
			}
			if k == "_id" {
				k = "id"
			}
			out[k] = normalize(child)
		}
		return out
	case []interface{}:
		for i, child := range val {
			val[i] = normalize(child)
		}
		return val
	case float64:
		if val == float64(int64(val)) {
			return int64(val)
		}
	}
	return v
}

func printReport(results []comparison) {
	fmt.Println("API Parity Report")
	fmt.Println("=================")
	for _, res := range results {
		status := "OK"
		if res.Error != nil {
			status = "ERROR"
		} else if !res.StatusMatch || !res.BodyMatch {
			status = "DIFF"
		}
		fmt.Printf("[%s] %s %s\n", status, res.Target.Method, res.Target.Path)
		fmt.Printf("  Go Status: %d (%s)\n", res.GoStatus, res.DurationGo)
		fmt.Printf("  Legacy Status: %d (%s)\n", res.LegacyStatus, res.DurationLegacy)
		if res.Error != nil {
			fmt.Printf("  Error: %v\n", res.Error)
		} else {
			fmt.Printf("  Status match: %t | Body match: %t | Critical: %t\n", res.StatusMatch, res.BodyMatch, res.Target.Critical)
		}
	}
}
