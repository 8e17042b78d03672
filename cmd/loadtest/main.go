package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"sort"
	"sync"
	"time"
)

type evaluatePayload struct {
	Applicant map[string]any  `json:"applicant"`
	Rules     json.RawMessage `json:"rules,omitempty"`
}

type result struct {
	latency time.Duration
	status  int
	err     error
}

const inlineRules = `[
	{"name": "Top merit candidate", "priority": 100,
	 "conditions": [["cgpa", ">=", 3.7], ["co_curricular_score", ">=", 80],
	                ["family_income", "<=", 8000], ["disciplinary_actions", "==", 0]],
	 "action": {"decision": "AWARD_FULL", "reason": "Excellent academic & co-curricular performance, with acceptable need"}},
	{"name": "Low CGPA - not eligible", "priority": 95,
	 "conditions": [["cgpa", "<", 2.5]],
	 "action": {"decision": "REJECT", "reason": "CGPA below minimum scholarship requirement"}}
]`

func main() {
	url := flag.String("url", "http://localhost:8080/evaluate", "evaluate endpoint URL")
	rps := flag.Int("rps", 50, "target requests per second")
	duration := flag.Duration("duration", 60*time.Second, "test duration")
	workers := flag.Int("workers", 50, "number of concurrent workers")
	timeout := flag.Duration("timeout", 5*time.Second, "HTTP client timeout")
	inline := flag.Bool("inline", true, "send the rule document inline with every request")
	flag.Parse()

	if *rps <= 0 || *duration <= 0 || *workers <= 0 {
		fmt.Fprintln(os.Stderr, "rps, duration and workers must be > 0")
		os.Exit(2)
	}

	payload := evaluatePayload{
		Applicant: map[string]any{
			"cgpa":                 3.8,
			"co_curricular_score":  85,
			"family_income":        5000,
			"disciplinary_actions": 0,
		},
	}
	if *inline {
		payload.Rules = json.RawMessage(inlineRules)
	}
	body, err := json.Marshal(payload)
	if err != nil {
		fmt.Fprintf(os.Stderr, "marshal payload: %v\n", err)
		os.Exit(1)
	}

	results := run(*url, body, *rps, *duration, *workers, *timeout)
	report(results, *rps, *duration)
}

func run(url string, body []byte, rps int, duration time.Duration, workers int, timeout time.Duration) []result {
	client := &http.Client{Timeout: timeout}
	jobs := make(chan struct{}, workers)

	var wg sync.WaitGroup
	var mu sync.Mutex
	results := make([]result, 0, rps*int(duration.Seconds())+1)

	record := func(r result) {
		mu.Lock()
		results = append(results, r)
		mu.Unlock()
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range jobs {
				start := time.Now()
				req, err := http.NewRequest(http.MethodPost, url, bytes.NewReader(body))
				if err != nil {
					record(result{latency: time.Since(start), err: err})
					continue
				}
				req.Header.Set("Content-Type", "application/json")

				resp, err := client.Do(req)
				lat := time.Since(start)
				if err != nil {
					record(result{latency: lat, err: err})
					continue
				}

				_, _ = io.Copy(io.Discard, resp.Body)
				_ = resp.Body.Close()
				record(result{latency: lat, status: resp.StatusCode})
			}
		}()
	}

	ticker := time.NewTicker(time.Second / time.Duration(rps))
	defer ticker.Stop()
	deadline := time.Now().Add(duration)

	for now := range ticker.C {
		if now.After(deadline) {
			break
		}
		jobs <- struct{}{}
	}
	close(jobs)
	wg.Wait()

	return results
}

func report(results []result, rps int, duration time.Duration) {
	latencies := make([]time.Duration, 0, len(results))
	success2xx := 0
	non2xx := 0
	errs := 0

	for _, r := range results {
		latencies = append(latencies, r.latency)
		switch {
		case r.err != nil:
			errs++
		case r.status >= 200 && r.status < 300:
			success2xx++
		default:
			non2xx++
		}
	}

	if len(latencies) == 0 {
		fmt.Fprintln(os.Stderr, "no requests executed")
		os.Exit(1)
	}

	sort.Slice(latencies, func(i, j int) bool { return latencies[i] < latencies[j] })
	p50 := percentile(latencies, 50)
	p90 := percentile(latencies, 90)
	p99 := percentile(latencies, 99)
	achievedRPS := float64(len(latencies)) / duration.Seconds()

	fmt.Printf("Load test finished\n")
	fmt.Printf("- target_rps: %d\n", rps)
	fmt.Printf("- achieved_rps: %.2f\n", achievedRPS)
	fmt.Printf("- duration: %s\n", duration.String())
	fmt.Printf("- requests: %d\n", len(latencies))
	fmt.Printf("- 2xx: %d\n", success2xx)
	fmt.Printf("- non_2xx: %d\n", non2xx)
	fmt.Printf("- errors: %d\n", errs)
	fmt.Printf("- avg_ms: %.3f\n", ms(average(latencies)))
	fmt.Printf("- p50_ms: %.3f\n", ms(p50))
	fmt.Printf("- p90_ms: %.3f\n", ms(p90))
	fmt.Printf("- p99_ms: %.3f\n", ms(p99))

	minRPS := float64(rps) * 0.98
	if achievedRPS >= minRPS && p90 < 30*time.Millisecond && errs == 0 && non2xx == 0 {
		fmt.Println("PASS: meets target RPS and P90 < 30ms")
		return
	}

	fmt.Println("FAIL: does not meet target (or has request errors)")
	os.Exit(1)
}

func percentile(items []time.Duration, p int) time.Duration {
	if len(items) == 0 {
		return 0
	}
	return items[(len(items)-1)*p/100]
}

func average(items []time.Duration) time.Duration {
	if len(items) == 0 {
		return 0
	}
	var total time.Duration
	for _, d := range items {
		total += d
	}
	return total / time.Duration(len(items))
}

func ms(d time.Duration) float64 {
	return float64(d.Microseconds()) / 1000.0
}
