package filetable

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"math"
	"os"
	"path/filepath"

	"github.com/zeebo/xxh3"
	"golang.org/x/sync/errgroup"
)

// Record describes one scanned file.
type Record struct {
	// Hash is the xxh3-64 digest of the content as 16 lowercase hex digits.
	Hash string
	// Filename is the path of the file, slash separated.
	Filename string
	// Entropy is the Shannon entropy of the content in bits per byte.
	Entropy float64
	// Size is the content length in bytes.
	Size int64
}

// Entropy returns the Shannon entropy in bits per byte of a byte histogram.
// An empty histogram has zero entropy.
func Entropy(counts *[256]int64) float64 {
	var total int64
	for _, n := range counts {
		total += n
	}
	if total == 0 {
		return 0
	}

	entropy := 0.0
	for _, n := range counts {
		if n == 0 {
			continue
		}
		p := float64(n) / float64(total)
		entropy -= p * math.Log2(p)
	}
	return entropy
}

// histogramWriter counts byte occurrences of everything written to it.
type histogramWriter struct {
	counts [256]int64
}

func (w *histogramWriter) Write(p []byte) (int, error) {
	for _, b := range p {
		w.counts[b]++
	}
	return len(p), nil
}

// ScanFile hashes and measures a single file.
func ScanFile(path string) (Record, error) {
	file, err := os.Open(path)
	if err != nil {
		return Record{}, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer file.Close()

	hasher := xxh3.New()
	histogram := &histogramWriter{}

	size, err := io.Copy(io.MultiWriter(hasher, histogram), file)
	if err != nil {
		return Record{}, fmt.Errorf("failed to read %s: %w", path, err)
	}

	return Record{
		Hash:     fmt.Sprintf("%016x", hasher.Sum64()),
		Filename: filepath.ToSlash(path),
		Entropy:  Entropy(&histogram.counts),
		Size:     size,
	}, nil
}

// Scan walks root and scans every regular file with at most workers files
// read at the same time. Records come back in lexical path order.
func Scan(ctx context.Context, root string, workers int) ([]Record, error) {
	if workers <= 0 {
		workers = 1
	}

	var paths []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.Type().IsRegular() {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk %s: %w", root, err)
	}

	records := make([]Record, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			record, err := ScanFile(path)
			if err != nil {
				return err
			}
			records[i] = record
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return records, nil
}
