package main

import (
	"encoding/csv"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"sort"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/mergington/activities/internal/model"
)

func main() {
	addr := flag.String("addr", "http://localhost:8080", "Base URL of the activities API")
	activity := flag.String("activity", "", "Show a single activity's roster")
	csvOut := flag.Bool("csv", false, "Output as CSV (activity,email)")
	timeout := flag.Duration("timeout", 10*time.Second, "Request timeout")

	flag.Parse()

	catalog, err := fetchCatalog(*addr, *timeout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching activities: %v\n", err)
		os.Exit(1)
	}

	if *activity != "" {
		details, ok := catalog[*activity]
		if !ok {
			fmt.Fprintf(os.Stderr, "Error: activity %q not found\n", *activity)
			os.Exit(1)
		}

		if *csvOut {
			writeCSV(map[string]model.Activity{*activity: details}, []string{*activity})
			return
		}
		printRoster(*activity, details)
		return
	}

	names := make([]string, 0, len(catalog))
	for name := range catalog {
		names = append(names, name)
	}
	sort.Strings(names)

	if *csvOut {
		writeCSV(catalog, names)
		return
	}
	printSummary(catalog, names)
}

// fetchCatalog lists every activity from a running server
func fetchCatalog(addr string, timeout time.Duration) (map[string]model.Activity, error) {
	client := &http.Client{Timeout: timeout}

	resp, err := client.Get(strings.TrimRight(addr, "/") + "/activities")
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		var problem model.ProblemDetails
		if err := json.NewDecoder(resp.Body).Decode(&problem); err == nil && problem.Detail != "" {
			return nil, fmt.Errorf("%s", problem.Detail)
		}
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	var catalog map[string]model.Activity
	if err := json.NewDecoder(resp.Body).Decode(&catalog); err != nil {
		return nil, fmt.Errorf("decoding response: %w", err)
	}
	return catalog, nil
}

// printSummary renders an aligned overview of every activity
func printSummary(catalog map[string]model.Activity, names []string) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ACTIVITY\tSCHEDULE\tENROLLED\tSPOTS LEFT")
	for _, name := range names {
		a := catalog[name]
		fmt.Fprintf(w, "%s\t%s\t%d/%d\t%d\n",
			name, a.Schedule, len(a.Participants), a.MaxParticipants, a.SpotsLeft())
	}
	_ = w.Flush()
}

// printRoster renders one activity with its full participant list
func printRoster(name string, a model.Activity) {
	fmt.Println(name)
	fmt.Println(strings.Repeat("=", len(name)))
	fmt.Printf("Schedule:  %s\n", a.Schedule)
	fmt.Printf("Enrolled:  %d/%d\n", len(a.Participants), a.MaxParticipants)
	fmt.Println()

	if len(a.Participants) == 0 {
		fmt.Println("No participants yet")
		return
	}
	for _, email := range a.Participants {
		fmt.Println(email)
	}
}

// writeCSV emits one row per participant for attendance exports
func writeCSV(catalog map[string]model.Activity, names []string) {
	w := csv.NewWriter(os.Stdout)
	_ = w.Write([]string{"activity", "email"})
	for _, name := range names {
		for _, email := range catalog[name].Participants {
			_ = w.Write([]string{name, email})
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing CSV: %v\n", err)
		os.Exit(1)
	}
}
