package attrs

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"semdoc/internal/diag"
)

// Load reads every registry file named by paths. A directory contributes its
// *.yaml and *.yml files, recursively, in lexical order. Diagnostics are
// reported per file; duplicates are detected across all files.
func Load(bag *diag.Bag, paths ...string) ([]AttributeDoc, error) {
	files, err := collect(paths)
	if err != nil {
		return nil, err
	}
	var docs []AttributeDoc
	for _, path := range files {
		part, err := loadFile(path, bag)
		if err != nil {
			return nil, err
		}
		docs = append(docs, part...)
	}
	return Dedup(docs, bag), nil
}

func loadFile(path string, bag *diag.Bag) ([]AttributeDoc, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Parse(path, f, reporterFor(bag, path))
}

func reporterFor(bag *diag.Bag, subject string) diag.Reporter {
	if bag == nil {
		return nil
	}
	return diag.BagReporter{Bag: bag, Subject: subject}
}

func collect(paths []string) ([]string, error) {
	var files []string
	for _, p := range paths {
		info, err := os.Stat(p)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			files = append(files, p)
			continue
		}
		var found []string
		err = filepath.WalkDir(p, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				return nil
			}
			switch strings.ToLower(filepath.Ext(path)) {
			case ".yaml", ".yml":
				found = append(found, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("walk %s: %w", p, err)
		}
		slices.Sort(found)
		files = append(files, found...)
	}
	return files, nil
}
