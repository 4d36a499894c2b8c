package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"sync"
	"sync/atomic"
)

// ### Start - fixed configs (no change)
// These values define deterministic test data generation and must match expected results.
// DO NOT MODIFY: Changing these will break the test's deterministic behavior.
const (
	totalSamples   = 60000 // Total number of samples across the whole recording
	channelCount   = 10    // Channels per sample, must match server ingestion config
	sampleRateHz   = 1000  // Samples per second
	recordingStart = 1735380000000
)

// ### End - fixed configs

type sample struct {
	Timestamp int64     `json:"timestamp"`
	Values    []float64 `json:"values"`
}

type uploadBatch struct {
	Samples    []*sample `json:"samples"`
	DeviceInfo struct {
		Name    string `json:"name"`
		Address string `json:"address"`
	} `json:"deviceInfo"`
	BatchInfo struct {
		Size      int   `json:"size"`
		StartTime int64 `json:"startTime"`
		EndTime   int64 `json:"endTime"`
	} `json:"batchInfo"`
}

type sessionResponse struct {
	SessionID string `json:"sessionId"`
	Status    string `json:"status"`
}

type finalizeResponse struct {
	SessionID        string `json:"sessionId"`
	TotalSamples     int    `json:"totalSamples"`
	SourceChunkCount int    `json:"sourceChunkCount"`
	AlreadyCompleted bool   `json:"alreadyCompleted"`
}

type queryResponse struct {
	SessionID     string  `json:"sessionId"`
	Timestamps    []int64 `json:"timestamps"`
	TotalSamples  int     `json:"totalSamples"`
	Decimated     bool    `json:"decimated"`
	DataAvailable bool    `json:"dataAvailable"`
	Channels      []struct {
		Channel int       `json:"channel"`
		Values  []float64 `json:"values"`
		Stats   struct {
			Min   float64 `json:"min"`
			Max   float64 `json:"max"`
			Avg   float64 `json:"avg"`
			RMS   float64 `json:"rms"`
			Count int     `json:"count"`
		} `json:"stats"`
	} `json:"channels"`
}

// main runs the e2e scenario: 001_ingest_finalize_query
//
// This scenario tests the end-to-end flow of a recording session: batches of
// multi-channel samples are uploaded in parallel and deliberately out of time
// order, the session is finalized into a single consolidated chunk, and the
// consolidated data is queried back.
//
// What it tests:
//   - Session creation via POST /sessions
//   - Parallel batch ingestion via POST /sessions/{id}/batches with
//     out-of-order upload times
//   - Repeated finalization via POST /sessions/{id}/finalize (idempotency)
//   - Batches arriving after finalization are dropped without an error
//   - Range query via GET /sessions/{id}/data returns time-sorted,
//     gap-free timestamps and correct rolled-up statistics
//
// Expected results:
//   - All original batches return 202 Accepted, retrying 409 index
//     collisions between concurrent uploads
//   - Finalize reports totalSamples = 60000 and sourceChunkCount = batches
//   - A second finalize reports alreadyCompleted = true
//   - A late batch returns 202 with processedCount 0
//   - The full-range query reports 60000 total samples with monotonically
//     increasing timestamps, and channel 0 statistics match the generator
func main() {
	// these configs can be changed to run the scenario
	baseURL := "http://localhost:8080" // Base URL of the ingestion API server
	userID := "user-e2e"               // Principal sent in the x-user-id header
	samplesPerBatch := 1000            // Samples per upload batch
	parallel := 4                      // Number of concurrent batch uploads

	if totalSamples%samplesPerBatch != 0 {
		fmt.Fprintf(os.Stderr, "ERROR: totalSamples (%d) must be divisible by samplesPerBatch (%d)\n", totalSamples, samplesPerBatch)
		os.Exit(1)
	}
	batchCount := totalSamples / samplesPerBatch

	fmt.Println("Starting e2e scenario: 001_ingest_finalize_query")
	fmt.Printf("BASE_URL: %s\n", baseURL)
	fmt.Printf("USER_ID: %s\n", userID)
	fmt.Printf("SAMPLES_PER_BATCH: %d\n", samplesPerBatch)
	fmt.Printf("BATCH_COUNT: %d\n", batchCount)
	fmt.Printf("PARALLEL: %d\n", parallel)
	fmt.Println()

	// 1. Create the session
	sessionID := createSession(baseURL, userID)
	fmt.Printf("Created session: %s\n", sessionID)
	fmt.Println()

	// 2. Build all batches, then send them in reverse time order so the
	// server has to reorder during finalization.
	batches := make([][]byte, batchCount)
	for i := 0; i < batchCount; i++ {
		batches[i] = buildBatchJSON(i, samplesPerBatch)
	}
	for i, j := 0, len(batches)-1; i < j; i, j = i+1, j-1 {
		batches[i], batches[j] = batches[j], batches[i]
	}

	workerChan := make(chan struct{}, parallel)
	var wg sync.WaitGroup
	var accepted, failed int64
	for i, body := range batches {
		wg.Add(1)
		workerChan <- struct{}{}
		go func(index int, jsonData []byte) {
			defer wg.Done()
			defer func() { <-workerChan }()

			// Concurrent uploads can collide on the next chunk index; the
			// server answers 409 and the upload is retried against a
			// re-read index.
			const maxAttempts = 10
			for attempt := 1; ; attempt++ {
				status, _, err := send(http.MethodPost, baseURL+"/sessions/"+sessionID+"/batches", userID, jsonData)
				if err == nil && status == http.StatusAccepted {
					atomic.AddInt64(&accepted, 1)
					return
				}
				if err == nil && status == http.StatusConflict && attempt < maxAttempts {
					continue
				}
				atomic.AddInt64(&failed, 1)
				fmt.Fprintf(os.Stderr, "ERROR: batch %d failed after %d attempts (status %d): %v\n", index, attempt, status, err)
				return
			}
		}(i, body)
	}
	wg.Wait()

	fmt.Printf("Batches accepted: %d, failed: %d\n", accepted, failed)
	if failed > 0 {
		os.Exit(1)
	}
	fmt.Println()

	// 3. Finalize, twice
	first := finalize(baseURL, userID, sessionID)
	fmt.Printf("Finalize: totalSamples=%d sourceChunkCount=%d alreadyCompleted=%v\n",
		first.TotalSamples, first.SourceChunkCount, first.AlreadyCompleted)
	expect(first.TotalSamples == totalSamples, "finalize totalSamples mismatch: got %d", first.TotalSamples)
	expect(first.SourceChunkCount == batchCount, "finalize sourceChunkCount mismatch: got %d", first.SourceChunkCount)
	expect(!first.AlreadyCompleted, "first finalize reported alreadyCompleted")

	second := finalize(baseURL, userID, sessionID)
	expect(second.AlreadyCompleted, "second finalize did not report alreadyCompleted")
	fmt.Println("Repeated finalize is idempotent")

	// 4. A straggler batch after finalization is dropped, not rejected
	status, body, err := send(http.MethodPost, baseURL+"/sessions/"+sessionID+"/batches", userID, buildBatchJSON(0, samplesPerBatch))
	expect(err == nil && status == http.StatusAccepted, "late batch not accepted (status %d): %v", status, err)
	var late struct {
		ProcessedCount int `json:"processedCount"`
	}
	expect(json.Unmarshal(body, &late) == nil, "late batch response unparseable")
	expect(late.ProcessedCount == 0, "late batch was not dropped: processedCount=%d", late.ProcessedCount)
	fmt.Println("Late batch dropped with processedCount=0")
	fmt.Println()

	// 5. Query the full range back
	url := fmt.Sprintf("%s/sessions/%s/data?channels=0&maxPoints=%d", baseURL, sessionID, totalSamples)
	status, body, err = send(http.MethodGet, url, userID, nil)
	expect(err == nil && status == http.StatusOK, "query failed (status %d): %v", status, err)

	var result queryResponse
	expect(json.Unmarshal(body, &result) == nil, "query response unparseable")
	expect(result.DataAvailable, "query reported no data")
	expect(result.TotalSamples == totalSamples, "query totalSamples mismatch: got %d", result.TotalSamples)
	expect(len(result.Timestamps) == totalSamples, "query returned %d timestamps", len(result.Timestamps))

	for i := 1; i < len(result.Timestamps); i++ {
		if result.Timestamps[i] != result.Timestamps[i-1]+1 {
			fmt.Fprintf(os.Stderr, "ERROR: timestamps not contiguous at index %d\n", i)
			os.Exit(1)
		}
	}
	fmt.Println("Timestamps are contiguous and sorted")

	// Channel 0 carries a known ramp, so its stats are closed-form.
	stats := result.Channels[0].Stats
	expect(math.Abs(stats.Min-0) < 1e-9, "channel 0 min mismatch: got %v", stats.Min)
	expect(math.Abs(stats.Max-float64(totalSamples-1)) < 1e-9, "channel 0 max mismatch: got %v", stats.Max)
	expectedAvg := float64(totalSamples-1) / 2
	expect(math.Abs(stats.Avg-expectedAvg) < 1, "channel 0 avg mismatch: got %v want ~%v", stats.Avg, expectedAvg)
	expect(stats.Count == totalSamples, "channel 0 stats count mismatch: got %d", stats.Count)
	fmt.Println("Channel 0 statistics match the generator")

	fmt.Println()
	fmt.Println("Scenario completed successfully")
}

// buildBatchJSON generates batch number index of the recording. Channel 0
// carries a global ramp (sample number), the rest a per-channel constant.
func buildBatchJSON(index, samplesPerBatch int) []byte {
	var batch uploadBatch
	batch.DeviceInfo.Name = "HeartTrack Pro"
	batch.DeviceInfo.Address = "AA:BB:CC:DD:EE:FF"

	base := index * samplesPerBatch
	for i := 0; i < samplesPerBatch; i++ {
		global := base + i
		values := make([]float64, channelCount)
		values[0] = float64(global)
		for c := 1; c < channelCount; c++ {
			values[c] = float64(c)
		}
		batch.Samples = append(batch.Samples, &sample{
			Timestamp: recordingStart + int64(global)*1000/sampleRateHz,
			Values:    values,
		})
	}
	batch.BatchInfo.Size = samplesPerBatch
	batch.BatchInfo.StartTime = batch.Samples[0].Timestamp
	batch.BatchInfo.EndTime = batch.Samples[samplesPerBatch-1].Timestamp

	jsonData, err := json.Marshal(batch)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: failed to marshal batch %d: %v\n", index, err)
		os.Exit(1)
	}
	return jsonData
}

func createSession(baseURL, userID string) string {
	body := []byte(`{"deviceId":"dev-e2e-001","deviceType":"ecg","deviceName":"HeartTrack Pro","sampleRate":1000}`)
	status, respBody, err := send(http.MethodPost, baseURL+"/sessions", userID, body)
	if err != nil || status != http.StatusCreated {
		fmt.Fprintf(os.Stderr, "ERROR: create session failed (status %d): %v\n", status, err)
		os.Exit(1)
	}
	var resp sessionResponse
	if err := json.Unmarshal(respBody, &resp); err != nil || resp.SessionID == "" {
		fmt.Fprintf(os.Stderr, "ERROR: create session response unparseable: %v\n", err)
		os.Exit(1)
	}
	return resp.SessionID
}

func finalize(baseURL, userID, sessionID string) finalizeResponse {
	status, body, err := send(http.MethodPost, baseURL+"/sessions/"+sessionID+"/finalize", userID, nil)
	if err != nil || status != http.StatusOK {
		fmt.Fprintf(os.Stderr, "ERROR: finalize failed (status %d): %v\n", status, err)
		os.Exit(1)
	}
	var resp finalizeResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: finalize response unparseable: %v\n", err)
		os.Exit(1)
	}
	return resp
}

func send(method, url, userID string, body []byte) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("content-type", "application/json")
	req.Header.Set("x-user-id", userID)
	req.Header.Set("user-agent", "SignalRecorder/2.1")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, respBody, nil
}

func expect(ok bool, format string, args ...any) {
	if !ok {
		fmt.Fprintf(os.Stderr, "ERROR: "+format+"\n", args...)
		os.Exit(1)
	}
}
