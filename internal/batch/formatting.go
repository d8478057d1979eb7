package batch

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"strconv"
	"text/tabwriter"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// formatBatchResults formats the batch processing results in the specified format.
func formatBatchResults(r *Result, format string) (string, error) {
	switch format {
	case "json":
		return formatJSON(r)
	case "csv":
		return formatCSV(r)
	case "text", "":
		return formatText(r), nil
	default:
		return "", fmt.Errorf("unsupported format: %s", format)
	}
}

// itemStatus describes an item in a few words.
func itemStatus(it Item) string {
	res := it.Result
	switch {
	case !res.Decoded():
		return "error: " + it.Error
	case res.Undecoded > 0:
		return fmt.Sprintf("partial (%d undecoded)", res.Undecoded)
	case !res.ChecksumOK:
		return "checksum mismatch"
	default:
		return "ok"
	}
}

func formatText(r *Result) string {
	var buf bytes.Buffer
	p := message.NewPrinter(language.English)

	tw := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "FILE\tCODE\tSTATUS\tSCORE")
	for _, it := range r.Items {
		code := "-"
		if it.Result.Decoded() {
			code = it.Result.Formatted()
		}
		score := "-"
		if it.Scored {
			score = p.Sprintf("%d/13 (%.1f%%)", it.Matches, 100*it.Score)
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", it.Path, code, itemStatus(it), score)
	}
	_ = tw.Flush()

	if len(r.Groups) > 1 || r.Summary.Scored > 0 {
		_, _ = fmt.Fprintln(&buf)
		tw = tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
		_, _ = fmt.Fprintln(tw, "GROUP\tIMAGES\tDECODED\tVALID\tMEAN SCORE\tSTD DEV")
		for _, g := range r.Groups {
			_, _ = p.Fprintf(tw, "%s\t%d\t%d\t%d\t%s\t%s\n",
				g.Group, g.Images, g.Decoded, g.Valid, percent(p, g.Scored, g.MeanScore), percent(p, g.Scored, g.StdDevScore))
		}
		_ = tw.Flush()
	}

	s := r.Summary
	_, _ = p.Fprintf(&buf, "\n%d images, %d decoded, %d valid, %d failed", s.Images, s.Decoded, s.Valid, s.Failed)
	if s.Scored > 0 {
		_, _ = p.Fprintf(&buf, ", %d exact, mean score %.1f%%", s.ExactMatches, 100*s.MeanScore)
	}
	_, _ = fmt.Fprintf(&buf, " in %s\n", r.Duration.Round(time.Millisecond))
	if r.Stats.ThroughputPerSec > 0 {
		_, _ = p.Fprintf(&buf, "%.1f images/s with %d workers\n", r.Stats.ThroughputPerSec, r.Stats.WorkerCount)
	}
	return buf.String()
}

func percent(p *message.Printer, n int, v float64) string {
	if n == 0 {
		return "-"
	}
	return p.Sprintf("%.1f%%", 100*v)
}

func formatJSON(r *Result) (string, error) {
	out := struct {
		Images     []Item       `json:"images"`
		Groups     []GroupStats `json:"groups"`
		Summary    Summary      `json:"summary"`
		Throughput float64      `json:"throughput_per_sec"`
		DurationNs int64        `json:"duration_ns"`
		Workers    int          `json:"workers"`
	}{
		Images:     r.Items,
		Groups:     r.Groups,
		Summary:    r.Summary,
		Throughput: r.Stats.ThroughputPerSec,
		DurationNs: r.Duration.Nanoseconds(),
		Workers:    r.WorkerCount,
	}
	bts, err := json.MarshalIndent(out, "", "  ")
	return string(bts), err
}

func formatCSV(r *Result) (string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.Write([]string{
		"file", "group", "code", "country", "checksum_ok", "undecoded", "expected", "matches", "score", "error",
	}); err != nil {
		return "", err
	}

	for _, it := range r.Items {
		row := []string{it.Path, it.Group, "", "", "false", "", it.Expected, "", "", it.Error}
		if res := it.Result; res.Decoded() {
			row[2] = res.Code
			row[3] = strconv.Itoa(res.CountryCode)
			row[4] = strconv.FormatBool(res.ChecksumOK)
			row[5] = strconv.Itoa(res.Undecoded)
		}
		if it.Scored {
			row[7] = strconv.Itoa(it.Matches)
			row[8] = strconv.FormatFloat(it.Score, 'f', 4, 64)
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}
	w.Flush()
	return buf.String(), w.Error()
}
