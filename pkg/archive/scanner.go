// Package archive safely extracts a gzipped tar release archive into a
// scratch directory and statically inspects its contents for signals
// commonly associated with supply-chain compromise: install-script
// abuse, shell/network primitives, eval-style dynamic execution, and
// high-entropy or hex-encoded obfuscated payloads.
//
// The scanner never raises to its caller: a missing, corrupt, or
// unreadable archive degrades to an empty [Signals], and a single
// unreadable member is skipped rather than aborting the scan.
package archive

import (
	"archive/tar"
	"compress/gzip"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/charmbracelet/log"
)

// installHooks are the npm lifecycle scripts treated as install hooks.
var installHooks = []string{"postinstall", "preinstall", "install", "prepare", "prepublish"}

// networkTokens are substrings checked (case-insensitively) inside
// install-hook script bodies.
var networkTokens = []string{"curl", "wget", "nc ", "bash", "sh "}

var (
	evalPattern  = regexp.MustCompile(`(?i)\beval\s*\(|\bFunction\s*\(|\bchild_process\b`)
	shellPattern = regexp.MustCompile(`(?i)\bcurl\s+|\bwget\s+|\bnc\s+|\brequire\s*\(\s*['"]child_process['"]\s*\)`)
	longB64      = regexp.MustCompile(`['"][A-Za-z0-9+/=]{100,}['"]`)
	hexRun       = regexp.MustCompile(`(?:\\x[0-9a-fA-F]{2}){51,}`)

	sourceExtensions = map[string]bool{".js": true, ".ts": true, ".mjs": true, ".cjs": true}
)

const entropyThreshold = 4.0

// InstallScript records one triggered install hook.
type InstallScript struct {
	Name    string `json:"name"`
	Content string `json:"content"` // truncated to 500 chars
}

// PatternMatch records one regex hit with surrounding context.
type PatternMatch struct {
	File    string `json:"file"`
	Script  string `json:"script,omitempty"`  // set only for package.json hook matches
	Pattern string `json:"pattern,omitempty"` // set only for source-file matches
	Snippet string `json:"snippet"`
}

// EntropyMatch records one high-entropy or hex-encoded string literal.
type EntropyMatch struct {
	File    string  `json:"file"`
	Type    string  `json:"type,omitempty"` // "hex_encoded" when set
	Entropy float64 `json:"entropy,omitempty"`
	Length  int     `json:"length"`
	Snippet string  `json:"snippet"`
}

// Signals is the full output of a tarball scan.
type Signals struct {
	HasPostinstall      bool           `json:"has_postinstall"`
	HasNetworkCommands  bool           `json:"has_network_commands"`
	HasEvalFunction     bool           `json:"has_eval_function"`
	HasHighEntropy      bool           `json:"has_high_entropy"`
	InstallScripts      []InstallScript `json:"install_scripts"`
	NetworkPatterns     []PatternMatch `json:"network_patterns"`
	EvalPatterns        []PatternMatch `json:"eval_patterns"`
	HighEntropyStrings  []EntropyMatch `json:"high_entropy_strings"`
}

// Scan extracts the gzipped tarball at path into a private scratch
// directory, inspects it, and removes the scratch directory before
// returning. Any failure to open, extract, or read the archive yields an
// empty Signals rather than an error.
func Scan(path string) Signals {
	signals := Signals{}

	if _, err := os.Stat(path); err != nil {
		return signals
	}

	scratch, err := os.MkdirTemp("", "audit-scan-*")
	if err != nil {
		return signals
	}
	defer os.RemoveAll(scratch)

	if err := extractSafely(path, scratch); err != nil {
		log.Debug("archive extraction failed", "path", path, "err", err)
		return signals
	}

	scanManifest(scratch, &signals)
	scanSources(scratch, &signals)

	return signals
}

// extractSafely extracts a gzip-tar archive to dest, rejecting any member
// whose name is absolute or contains a ".." path segment (archive-slip
// defense). Surviving members are written relative to dest.
func extractSafely(path, dest string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	gz, err := gzip.NewReader(f)
	if err != nil {
		return err
	}
	defer gz.Close()

	tr := tar.NewReader(gz)
	for {
		hdr, err := tr.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if !isSafeMember(hdr.Name) {
			continue
		}

		target := filepath.Join(dest, hdr.Name)
		switch hdr.Typeflag {
		case tar.TypeDir:
			os.MkdirAll(target, 0o755)
		case tar.TypeReg:
			if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
				continue
			}
			if err := writeFile(tr, target, os.FileMode(hdr.Mode)); err != nil {
				log.Debug("skipping unreadable archive member", "name", hdr.Name, "err", err)
			}
		}
	}
}

func isSafeMember(name string) bool {
	if strings.HasPrefix(name, "/") {
		return false
	}
	for _, part := range strings.Split(name, "/") {
		if part == ".." {
			return false
		}
	}
	return true
}

func writeFile(r io.Reader, target string, mode os.FileMode) error {
	if mode == 0 {
		mode = 0o644
	}
	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode)
	if err != nil {
		return err
	}
	defer out.Close()
	_, err = io.Copy(out, r)
	return err
}

// scanManifest locates the first package.json reachable by directory
// walk and checks its "scripts" map for install hooks.
func scanManifest(root string, signals *Signals) {
	manifestPath := findManifest(root)
	if manifestPath == "" {
		return
	}

	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return
	}

	var manifest struct {
		Scripts map[string]string `json:"scripts"`
	}
	if err := json.Unmarshal(data, &manifest); err != nil {
		return
	}

	for _, hook := range installHooks {
		content, ok := manifest.Scripts[hook]
		if !ok {
			continue
		}

		signals.HasPostinstall = true
		signals.InstallScripts = append(signals.InstallScripts, InstallScript{
			Name:    hook,
			Content: truncate(content, 500),
		})

		lower := strings.ToLower(content)
		for _, token := range networkTokens {
			if strings.Contains(lower, token) {
				signals.HasNetworkCommands = true
				signals.NetworkPatterns = append(signals.NetworkPatterns, PatternMatch{
					File:    "package.json",
					Script:  hook,
					Snippet: truncate(content, 200),
				})
				break
			}
		}
	}
}

func findManifest(root string) string {
	var found string
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || found != "" {
			return nil
		}
		if !info.IsDir() && info.Name() == "package.json" {
			found = path
		}
		return nil
	})
	return found
}

// scanSources walks the extraction tree and applies the eval/network/
// obfuscation detector families to every JS/TS source file.
func scanSources(root string, signals *Signals) {
	filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil || info.IsDir() {
			return nil
		}
		if !sourceExtensions[strings.ToLower(filepath.Ext(path))] {
			return nil
		}

		rel, relErr := filepath.Rel(root, path)
		if relErr != nil {
			rel = path
		}

		data, readErr := os.ReadFile(path)
		if readErr != nil {
			log.Debug("skipping unreadable source file", "path", rel, "err", readErr)
			return nil
		}

		scanFileContent(string(data), rel, signals)
		return nil
	})
}

func scanFileContent(content, file string, signals *Signals) {
	if loc := evalPattern.FindStringIndex(content); loc != nil {
		signals.HasEvalFunction = true
		signals.EvalPatterns = append(signals.EvalPatterns, PatternMatch{
			File:    file,
			Pattern: evalPattern.String(),
			Snippet: snippetAround(content, loc),
		})
	}

	if loc := shellPattern.FindStringIndex(content); loc != nil {
		signals.HasNetworkCommands = true
		signals.NetworkPatterns = append(signals.NetworkPatterns, PatternMatch{
			File:    file,
			Pattern: shellPattern.String(),
			Snippet: snippetAround(content, loc),
		})
	}

	for _, s := range longB64.FindAllString(content, -1) {
		h := entropy(s)
		if h > entropyThreshold {
			signals.HasHighEntropy = true
			signals.HighEntropyStrings = append(signals.HighEntropyStrings, EntropyMatch{
				File:    file,
				Entropy: roundTo2(h),
				Length:  len(s),
				Snippet: truncateEllipsis(s, 100),
			})
		}
	}

	for _, h := range hexRun.FindAllString(content, -1) {
		signals.HasHighEntropy = true
		signals.HighEntropyStrings = append(signals.HighEntropyStrings, EntropyMatch{
			File:    file,
			Type:    "hex_encoded",
			Length:  len(h),
			Snippet: truncateEllipsis(h, 100),
		})
	}
}

// snippetAround extracts up to 50 characters of context on either side
// of a regex match location.
func snippetAround(content string, loc []int) string {
	start := loc[0] - 50
	if start < 0 {
		start = 0
	}
	end := loc[1] + 50
	if end > len(content) {
		end = len(content)
	}
	return content[start:end]
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}

func truncateEllipsis(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

func roundTo2(f float64) float64 {
	return float64(int(f*100+0.5)) / 100
}
