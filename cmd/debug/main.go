package main

import (
	"fmt"
	"io"
	"net/http"
	"time"
)

const symbol = "VWRL.L"

func main() {
	client := &http.Client{
		Timeout: 10 * time.Second,
	}

	urls := []string{
		"https://api.frankfurter.app/latest?base=GBP&symbols=USD,EUR",
		"https://api.frankfurter.dev/v1/latest?base=GBP&symbols=USD,EUR",
		fmt.Sprintf("https://query1.finance.yahoo.com/v7/finance/quote?symbols=%s", symbol),
		fmt.Sprintf("https://query2.finance.yahoo.com/v7/finance/quote?symbols=%s", symbol),
	}

	for _, url := range urls {
		fmt.Printf("\nTesting URL: %s\n", url)

		req, err := http.NewRequest(http.MethodGet, url, nil)
		if err != nil {
			fmt.Printf("Build request error: %v\n", err)
			continue
		}
		req.Header.Set("User-Agent", "portfolio60/1.0")

		resp, err := client.Do(req)
		if err != nil {
			fmt.Printf("GET request error: %v\n", err)
			continue
		}

		fmt.Printf("GET Status: %d\n", resp.StatusCode)
		fmt.Printf("Content-Type: %s\n", resp.Header.Get("Content-Type"))

		body, err := io.ReadAll(resp.Body)
		resp.Body.Close()
		if err != nil {
			fmt.Printf("Read body error: %v\n", err)
			continue
		}
		fmt.Printf("Response body length: %d bytes\n", len(body))
		if len(body) > 200 {
			fmt.Printf("First 200 bytes: %s\n", body[:200])
		} else {
			fmt.Printf("Body: %s\n", body)
		}
	}
}
