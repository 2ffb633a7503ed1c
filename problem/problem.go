package problem

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// Limits are the per-problem resource constraints handed to the
// judge. MemoryLimit is capped by the judge client before sending.
type Limits struct {
	TimeLimit   float64 // seconds
	MemoryLimit float64 // MB
	Repetitions int
	MaxFileSize int // KB
}

// TestCase is one (input, expected output) pair.
type TestCase struct {
	Input    string
	Expected string
}

// Info is the metadata parsed from a problem's problem.info file.
type Info struct {
	Name    string
	Letter  string
	PdfFile string
}

// FsRepo reads problems from a contests directory laid out as
// <root>/<contest>/<letter>/{limits,input,output,description}.
type FsRepo struct {
	root string
}

func NewFsRepo(root string) *FsRepo {
	return &FsRepo{root: root}
}

// path resolves a "contest/letter" problem id to a directory.
func (r *FsRepo) path(problemID string) (string, error) {
	contest, letter, ok := strings.Cut(problemID, "/")
	if !ok || contest == "" || letter == "" {
		return "", fmt.Errorf("invalid problem id %q, want contest/letter", problemID)
	}
	return filepath.Join(r.root, contest, letter), nil
}

// TestCases pairs files from the input/ and output/ directories by
// filename. The returned order is deterministic (sorted by name).
// Missing directories yield an empty list, not an error; the
// evaluation pipeline fails closed on empty lists.
func (r *FsRepo) TestCases(problemID string) ([]TestCase, error) {
	dir, err := r.path(problemID)
	if err != nil {
		return nil, err
	}
	inputDir := filepath.Join(dir, "input")
	outputDir := filepath.Join(dir, "output")

	entries, err := os.ReadDir(inputDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read input dir: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	cases := make([]TestCase, 0, len(names))
	for _, name := range names {
		outputPath := filepath.Join(outputDir, name)
		if _, err := os.Stat(outputPath); err != nil {
			continue // input without a matching output file
		}
		input, err := os.ReadFile(filepath.Join(inputDir, name))
		if err != nil {
			return nil, fmt.Errorf("read test input %s: %w", name, err)
		}
		expected, err := os.ReadFile(outputPath)
		if err != nil {
			return nil, fmt.Errorf("read test output %s: %w", name, err)
		}
		cases = append(cases, TestCase{Input: string(input), Expected: string(expected)})
	}
	return cases, nil
}

// Info parses description/problem.info, a file of key="value" lines.
func (r *FsRepo) Info(problemID string) (Info, error) {
	dir, err := r.path(problemID)
	if err != nil {
		return Info{}, err
	}
	data, err := os.ReadFile(filepath.Join(dir, "description", "problem.info"))
	if err != nil {
		if os.IsNotExist(err) {
			return Info{Name: "Unknown Problem"}, nil
		}
		return Info{}, fmt.Errorf("read problem.info: %w", err)
	}

	info := Info{}
	for _, line := range strings.Split(string(data), "\n") {
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"`)
		switch key {
		case "fullname":
			info.Name = value
		case "basename":
			info.Letter = value
		case "descfile":
			info.PdfFile = value
		}
	}
	if info.Name == "" {
		info.Name = "Unknown Problem"
	}
	return info, nil
}

// Statement returns the problem statement text from the description
// directory. Statement extraction from PDFs happens upstream; this
// repo serves the already extracted .txt next to the pdf.
func (r *FsRepo) Statement(problemID string) (string, error) {
	dir, err := r.path(problemID)
	if err != nil {
		return "", err
	}
	_, letter, _ := strings.Cut(problemID, "/")
	path := filepath.Join(dir, "description", letter+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read problem statement: %w", err)
	}
	return string(data), nil
}

func parseLimits(out string) (Limits, error) {
	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) < 3 {
		return Limits{}, fmt.Errorf("invalid limits output, want at least 3 lines, got %d", len(lines))
	}
	timeLimit, err := strconv.ParseFloat(strings.TrimSpace(lines[0]), 64)
	if err != nil {
		return Limits{}, fmt.Errorf("parse time limit: %w", err)
	}
	reps, err := strconv.Atoi(strings.TrimSpace(lines[1]))
	if err != nil {
		return Limits{}, fmt.Errorf("parse repetitions: %w", err)
	}
	memLimit, err := strconv.ParseFloat(strings.TrimSpace(lines[2]), 64)
	if err != nil {
		return Limits{}, fmt.Errorf("parse memory limit: %w", err)
	}
	lim := Limits{
		TimeLimit:   timeLimit,
		MemoryLimit: memLimit,
		Repetitions: reps,
		MaxFileSize: 1024,
	}
	if len(lines) > 3 {
		maxFileSize, err := strconv.Atoi(strings.TrimSpace(lines[3]))
		if err != nil {
			return Limits{}, fmt.Errorf("parse max file size: %w", err)
		}
		lim.MaxFileSize = maxFileSize
	}
	return lim, nil
}
