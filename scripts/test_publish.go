// +build ignore

package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	requestStream = "stream:ous:overlap"
	doneStream    = "stream:ous:overlap:done"
)

type OverlapRequestEvent struct {
	JobID  uuid.UUID       `json:"job_id"`
	Sketch json.RawMessage `json:"sketch,omitempty"`
}

// Тестовый участок у атолла Хаа-Алифу
const defaultSketch = `{
  "type": "Feature",
  "properties": {"id": "test-sketch", "name": "Test sketch"},
  "geometry": {"type": "Polygon", "coordinates": [[[72.9,6.8],[73.2,6.8],[73.2,7.1],[72.9,7.1],[72.9,6.8]]]}
}`

func main() {
	redisAddr := flag.String("redis", "localhost:6379", "Redis address for streams")
	sketchPath := flag.String("sketch", "", "GeoJSON file with the sketch (default: built-in polygon)")
	baseline := flag.Bool("baseline", false, "request survey-wide totals instead of a sketch")
	wait := flag.Duration("wait", 2*time.Minute, "how long to wait for the result")
	flag.Parse()

	client := redis.NewClient(&redis.Options{
		Addr: *redisAddr,
	})
	defer client.Close()

	ctx := context.Background()

	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis: %v", err)
	}

	event := OverlapRequestEvent{JobID: uuid.New()}
	if !*baseline {
		event.Sketch = json.RawMessage(defaultSketch)
		if *sketchPath != "" {
			data, err := os.ReadFile(*sketchPath)
			if err != nil {
				log.Fatalf("Failed to read sketch: %v", err)
			}
			event.Sketch = data
		}
	}

	data, err := json.Marshal(event)
	if err != nil {
		log.Fatalf("Failed to marshal event: %v", err)
	}

	// Запоминаем конец стрима результатов до публикации
	lastID := "$"
	if msgs, err := client.XRevRangeN(ctx, doneStream, "+", "-", 1).Result(); err == nil && len(msgs) > 0 {
		lastID = msgs[0].ID
	}

	result, err := client.XAdd(ctx, &redis.XAddArgs{
		Stream: requestStream,
		Values: map[string]interface{}{
			"data": string(data),
		},
	}).Result()
	if err != nil {
		log.Fatalf("Failed to publish event: %v", err)
	}

	fmt.Printf("Event published\n")
	fmt.Printf("   Stream: %s\n", requestStream)
	fmt.Printf("   Message ID: %s\n", result)
	fmt.Printf("   Job ID: %s\n", event.JobID)
	fmt.Printf("\nWaiting for response in %s...\n", doneStream)

	deadline := time.Now().Add(*wait)
	for time.Now().Before(deadline) {
		results, err := client.XRead(ctx, &redis.XReadArgs{
			Streams: []string{doneStream, lastID},
			Count:   10,
			Block:   time.Second,
		}).Result()
		if err != nil && err != redis.Nil {
			log.Printf("read failed: %v", err)
			time.Sleep(time.Second)
			continue
		}

		for _, stream := range results {
			for _, msg := range stream.Messages {
				lastID = msg.ID
				dataStr, ok := msg.Values["data"].(string)
				if !ok {
					continue
				}

				var response map[string]interface{}
				if err := json.Unmarshal([]byte(dataStr), &response); err != nil {
					continue
				}

				if jobID, ok := response["job_id"].(string); ok && jobID == event.JobID.String() {
					fmt.Printf("\nResponse received:\n")
					prettyJSON, _ := json.MarshalIndent(response, "", "  ")
					fmt.Printf("%s\n", prettyJSON)
					return
				}
			}
		}
	}

	fmt.Println("Timeout waiting for response")
	os.Exit(1)
}
