// Command drift_check compares the API's local state against the remote
// tabular store. Writes are fire-and-forget, so a dropped write shows up
// here as a per-collection drift until the next reload.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"
)

type record = map[string]interface{}

type stateDoc struct {
	Teachers  []record `json:"teachers"`
	Subjects  []record `json:"subjects"`
	Classes   []record `json:"classes"`
	TimeSlots []record `json:"timeSlots"`
	Schedules []record `json:"schedules"`
	Leaves    []record `json:"leaves"`
	Subs      []record `json:"subs"`
}

type apiEnvelope struct {
	Data stateDoc `json:"data"`
}

type drift struct {
	Collection  string
	LocalOnly   []string
	RemoteOnly  []string
	LocalCount  int
	RemoteCount int
}

func main() {
	var (
		apiBase    string
		remoteBase string
		timeout    time.Duration
	)

	flag.StringVar(&apiBase, "api-base", "http://localhost:8080", "API base URL")
	flag.StringVar(&remoteBase, "remote-base", "http://localhost:3000/store", "Remote store base URL")
	flag.DurationVar(&timeout, "timeout", 10*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	local, err := fetchState(client, strings.TrimRight(apiBase, "/")+"/api/v1/state", true)
	if err != nil {
		log.Fatalf("failed to fetch local state: %v", err)
	}
	remote, err := fetchState(client, fmt.Sprintf("%s?action=getData&t=%d", strings.TrimRight(remoteBase, "/"), time.Now().UnixMilli()), false)
	if err != nil {
		log.Fatalf("failed to fetch remote state: %v", err)
	}

	drifts := []drift{
		compare("teachers", local.Teachers, remote.Teachers),
		compare("subjects", local.Subjects, remote.Subjects),
		compare("classes", local.Classes, remote.Classes),
		compare("timeSlots", local.TimeSlots, remote.TimeSlots),
		compare("schedules", local.Schedules, remote.Schedules),
		compare("leaves", local.Leaves, remote.Leaves),
		compare("subs", local.Subs, remote.Subs),
	}

	drifting := 0
	for _, d := range drifts {
		if len(d.LocalOnly) == 0 && len(d.RemoteOnly) == 0 {
			fmt.Printf("%-10s ok (%d records)\n", d.Collection, d.LocalCount)
			continue
		}
		drifting++
		fmt.Printf("%-10s DRIFT local=%d remote=%d\n", d.Collection, d.LocalCount, d.RemoteCount)
		for _, id := range d.LocalOnly {
			fmt.Printf("  local only:  %s\n", id)
		}
		for _, id := range d.RemoteOnly {
			fmt.Printf("  remote only: %s\n", id)
		}
	}

	fmt.Printf("Drifting collections: %d\n", drifting)
	if drifting > 0 {
		os.Exit(1)
	}
}

func fetchState(client *http.Client, url string, enveloped bool) (*stateDoc, error) {
	resp, err := client.Get(url)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status %d from %s", resp.StatusCode, url)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if enveloped {
		var env apiEnvelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, err
		}
		return &env.Data, nil
	}
	var doc stateDoc
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

func compare(collection string, local, remote []record) drift {
	d := drift{Collection: collection, LocalCount: len(local), RemoteCount: len(remote)}
	localIDs := idSet(local)
	remoteIDs := idSet(remote)

	for id := range localIDs {
		if !remoteIDs[id] {
			d.LocalOnly = append(d.LocalOnly, id)
		}
	}
	for id := range remoteIDs {
		if !localIDs[id] {
			d.RemoteOnly = append(d.RemoteOnly, id)
		}
	}
	sort.Strings(d.LocalOnly)
	sort.Strings(d.RemoteOnly)
	return d
}

func idSet(records []record) map[string]bool {
	ids := make(map[string]bool, len(records))
	for _, r := range records {
		if id, ok := r["id"].(string); ok && id != "" {
			ids[id] = true
		}
	}
	return ids
}
