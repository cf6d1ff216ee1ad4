// loadgen fires synthetic order bursts at a running API instance and
// summarizes the outcomes. Useful for watching the stock invariant and
// admission control under concurrent load.
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
	"time"

	"golang.org/x/sync/errgroup"
)

type result struct {
	Status int
	Code   string
}

type apiError struct {
	Error struct {
		Code string `json:"code"`
	} `json:"error"`
}

func main() {
	var (
		baseURL     = flag.String("url", "http://localhost:8081", "API base URL")
		vendorID    = flag.String("vendor", "", "vendor id (required)")
		productID   = flag.String("product", "", "catalog product id; empty sends an inline item")
		userID      = flag.String("user", "load-user", "customer id stamped on orders")
		requests    = flag.Int("n", 100, "number of orders to place")
		concurrency = flag.Int("c", 10, "concurrent workers")
		qty         = flag.Int("qty", 1, "quantity per item")
	)
	flag.Parse()

	if *vendorID == "" {
		fmt.Fprintln(os.Stderr, "-vendor is required")
		os.Exit(2)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	results := make([]result, *requests)

	var g errgroup.Group
	g.SetLimit(*concurrency)
	start := time.Now()
	for i := 0; i < *requests; i++ {
		g.Go(func() error {
			results[i] = placeOne(client, *baseURL, *userID, *vendorID, *productID, *qty)
			return nil
		})
	}
	_ = g.Wait()
	elapsed := time.Since(start)

	summarize(results, elapsed)
}

func placeOne(client *http.Client, baseURL, userID, vendorID, productID string, qty int) result {
	var item map[string]any
	if productID != "" {
		item = map[string]any{"productId": productID, "quantity": qty}
	} else {
		item = map[string]any{"name": "Load Burger", "price": 9.99, "quantity": qty}
	}
	body, _ := json.Marshal(map[string]any{
		"userId":   userID,
		"vendorId": vendorID,
		"items":    []any{item},
	})

	resp, err := client.Post(baseURL+"/orders", "application/json", bytes.NewReader(body))
	if err != nil {
		return result{Status: 0, Code: "TRANSPORT_ERROR"}
	}
	defer resp.Body.Close()

	b, _ := io.ReadAll(resp.Body)
	var ae apiError
	_ = json.Unmarshal(b, &ae)
	return result{Status: resp.StatusCode, Code: ae.Error.Code}
}

func summarize(results []result, elapsed time.Duration) {
	statusCounts := map[int]int{}
	errorCodes := map[string]int{}
	for _, r := range results {
		statusCounts[r.Status]++
		if r.Code != "" {
			errorCodes[r.Code]++
		}
	}

	fmt.Printf("total=%d elapsed=%s rate=%.1f/s\n",
		len(results), elapsed.Round(time.Millisecond),
		float64(len(results))/elapsed.Seconds())

	statuses := make([]int, 0, len(statusCounts))
	for s := range statusCounts {
		statuses = append(statuses, s)
	}
	sort.Ints(statuses)
	for _, s := range statuses {
		fmt.Printf("  status %d: %d\n", s, statusCounts[s])
	}

	codes := make([]string, 0, len(errorCodes))
	for c := range errorCodes {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	for _, c := range codes {
		fmt.Printf("  error %s: %d\n", c, errorCodes[c])
	}
}
