package main

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"
)

func main() {
	baseURL := os.Getenv("GENOSCAN_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	genomicID := "NC_045512"
	if len(os.Args) > 1 {
		genomicID = os.Args[1]
	}

	// Wait for server to start
	time.Sleep(2 * time.Second)

	fmt.Println("Starting smoke test against", baseURL)

	fmt.Println("1. Health check...")
	health, ok := getJSON(baseURL + "/health")
	if !ok || health["status"] != "healthy" {
		fmt.Println("FAILED: Health check")
		os.Exit(1)
	}
	fmt.Println("PASSED: Health check")

	fmt.Printf("2. Analyzing %s...\n", genomicID)
	result, ok := getJSON(baseURL + "/analyze/" + genomicID)
	if !ok {
		fmt.Println("FAILED: Analyze")
		os.Exit(1)
	}
	for _, field := range []string{"genomic_id", "is_pathogen", "danger_level", "report", "source"} {
		if _, present := result[field]; !present {
			fmt.Printf("FAILED: Analyze response missing %q\n", field)
			os.Exit(1)
		}
	}
	_, hasOrganism := result["organism"]
	_, hasResponse := result["response"]
	if !hasOrganism && !hasResponse {
		fmt.Println("FAILED: Analyze response has neither organism nor response")
		os.Exit(1)
	}
	fmt.Printf("PASSED: Analyze (source=%v, danger_level=%v)\n", result["source"], result["danger_level"])
}

func getJSON(url string) (map[string]interface{}, bool) {
	client := &http.Client{Timeout: 2 * time.Minute}
	resp, err := client.Get(url)
	if err != nil {
		fmt.Printf("Error sending request: %v\n", err)
		return nil, false
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		fmt.Printf("Request failed with status %d: %s\n", resp.StatusCode, string(respBody))
		return nil, false
	}
	fmt.Printf("Response: %s\n", string(respBody))

	var out map[string]interface{}
	if err := json.Unmarshal(respBody, &out); err != nil {
		fmt.Printf("Invalid JSON: %v\n", err)
		return nil, false
	}
	return out, true
}
