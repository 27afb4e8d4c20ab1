package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"math/rand"
	"net/http"
	"time"

	"github.com/alecthomas/kong"

	"github.com/gregt1993/Health-Bridge/components/ingest"
	"github.com/gregt1993/Health-Bridge/pkg/metrics"
)

type cli struct {
	Send sendCmd `cmd:"" default:"1" help:"Push one or more randomized sample payloads to a webhook."`
	Test testCmd `cmd:"" help:"Send a connection probe and expect a success notification."`
}

type sendCmd struct {
	URL      string        `default:"http://localhost:8099/api/webhook/health" help:"Webhook endpoint."`
	User     string        `default:"alice" help:"User the samples belong to."`
	Count    int           `default:"1" help:"Number of payloads to send."`
	Interval time.Duration `default:"5s" help:"Delay between payloads when count > 1."`
	All      bool          `help:"Send a sample for every cataloged metric, not just the curated set."`
}

type testCmd struct {
	URL  string `default:"http://localhost:8099/api/test-connection" help:"Test-connection endpoint."`
	User string `default:"alice" help:"User to probe as."`
}

func main() {
	ctx := kong.Parse(&cli{},
		kong.Description("Test client that plays the role of the companion app."),
		kong.UsageOnError(),
	)
	err := ctx.Run(context.Background())
	ctx.FatalIfErrorf(err)
}

// Sample ranges roughly matching plausible human readings.
var sampleRanges = map[string][2]float64{
	"heart_rate":          {55, 95},
	"resting_heart_rate":  {50, 70},
	"steps":               {2000, 15000},
	"active_calories":     {100, 900},
	"distance":            {1000, 12000},
	"body_mass":           {60, 95},
	"oxygen_saturation":   {0.94, 1.0},
	"body_fat_percentage": {0.12, 0.3},
	"sleep_duration":      {18000, 32400},
	"walking_speed":       {0.9, 1.8},
}

func (cmd *sendCmd) Run(ctx context.Context) error {
	for i := 0; i < cmd.Count; i++ {
		if i > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(cmd.Interval):
			}
		}
		payload := randomPayload(cmd.User, cmd.All)
		if err := post(ctx, cmd.URL, payload); err != nil {
			return err
		}
		log.Printf("sent %d metrics for %s", len(payload.Data), cmd.User)
	}
	return nil
}

func (cmd *testCmd) Run(ctx context.Context) error {
	body, err := json.Marshal(map[string]string{"user_id": cmd.User})
	if err != nil {
		return fmt.Errorf("healthctl: encode probe: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, cmd.URL, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("healthctl: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthctl: probe connection: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("healthctl: probe returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	log.Printf("connection probe accepted")
	return nil
}

func randomPayload(user string, all bool) ingest.SyncPayload {
	now := time.Now().UTC().Format(time.RFC3339)
	data := make(map[string][]ingest.Reading, len(sampleRanges))
	for metric, bounds := range sampleRanges {
		value := bounds[0] + rand.Float64()*(bounds[1]-bounds[0])
		data[metric] = []ingest.Reading{{Timestamp: now, Value: value}}
	}
	if all {
		// Cataloged metrics outside the curated ranges get a generic value.
		for _, metric := range metrics.Names() {
			if _, ok := data[metric]; ok {
				continue
			}
			data[metric] = []ingest.Reading{{Timestamp: now, Value: 1 + rand.Float64()*99}}
		}
	}
	return ingest.SyncPayload{UserID: user, Data: data}
}

func post(ctx context.Context, url string, payload ingest.SyncPayload) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("healthctl: encode payload: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("healthctl: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return fmt.Errorf("healthctl: post webhook: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		detail, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("healthctl: webhook returned %d: %s", resp.StatusCode, bytes.TrimSpace(detail))
	}
	return nil
}
