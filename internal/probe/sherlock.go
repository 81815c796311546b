package probe

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/anityu45/footprintscan/internal/model"
)

// SherlockProbe shells out to the sherlock enumeration tool for a much
// wider username sweep than the built-in site table. The tool is slow
// (hundreds of sites), so it runs under the extended deep-probe budget
// rather than the standard per-probe one.
type SherlockProbe struct {
	binary  string
	timeout time.Duration
	parser  sherlockParser
}

// NewSherlockProbe creates a SherlockProbe driving the given binary.
func NewSherlockProbe(binary string, timeout time.Duration) *SherlockProbe {
	return &SherlockProbe{binary: binary, timeout: timeout}
}

// Name returns the probe name.
func (p *SherlockProbe) Name() string { return "sherlock" }

// Input returns the attribute kind this probe consumes.
func (p *SherlockProbe) Input() InputKind { return InputUsername }

// Timeout returns the per-run budget.
func (p *SherlockProbe) Timeout() time.Duration { return p.timeout }

// Run executes the enumeration binary and parses its stdout. A missing
// binary is reported as ErrEnumeratorNotFound so the coordinator can
// degrade the probe instead of failing the scan.
func (p *SherlockProbe) Run(ctx context.Context, username string) ([]model.Signal, error) {
	if _, err := exec.LookPath(p.binary); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrEnumeratorNotFound, p.binary)
	}

	cmd := exec.CommandContext(ctx, p.binary, "--print-found", "--no-color", "--timeout", "10", username)
	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = io.Discard

	if err := cmd.Run(); err != nil {
		// The context deadline surfaces as a killed process. Partial
		// output up to that point is still usable.
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return p.parser.parse(&stdout), ctx.Err()
		}
		return nil, fmt.Errorf("run %s: %w", p.binary, err)
	}

	return p.parser.parse(&stdout), nil
}

// sherlockParser extracts positive hits from sherlock's stdout. It is a
// separate type so the line format can be tested against captured output
// without a binary on PATH.
type sherlockParser struct{}

// hitPattern matches positive result lines, e.g.
//
//	[+] GitHub: https://github.com/alice
var hitPattern = regexp.MustCompile(`^\[\+\]\s+([^:]+):\s+(\S+)\s*$`)

func (sherlockParser) parse(r io.Reader) []model.Signal {
	signals := make([]model.Signal, 0)
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		match := hitPattern.FindStringSubmatch(strings.TrimSpace(scanner.Text()))
		if match == nil {
			continue
		}
		site := strings.ToLower(strings.TrimSpace(match[1]))
		if site == "" || seen[site] {
			continue
		}
		seen[site] = true
		signals = append(signals, model.Signal{
			Source:      site,
			Present:     true,
			Description: "profile found on " + site,
			Category:    model.CategorySocialMedia,
			URL:         match[2],
		})
	}
	return signals
}
