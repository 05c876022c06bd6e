// Copyright (c) 2024 Fantom Foundation
//
// Use of this software is governed by the Business Source License included
// in the LICENSE file and at fantom.foundation/bsl11.
//
// Change Date: 2028-4-16
//
// On the date above, in accordance with the Business Source License, use of
// this software will be governed by the GNU Lesser General Public License v3.

package cliUtils

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/crypto/sha3"
)

// EnumerateInputs lists the given files and all files contained in the
// given directories, recursively.
func EnumerateInputs(inputs []string) ([]string, error) {
	var inputFiles []string

	for _, input := range inputs {
		path, err := filepath.Abs(input)
		if err != nil {
			return nil, err
		}

		stat, err := os.Stat(path)
		if err != nil {
			return nil, err
		}
		if !stat.IsDir() {
			inputFiles = append(inputFiles, path)
			continue
		}

		entries, err := os.ReadDir(path)
		if err != nil {
			return nil, err
		}

		for _, entry := range entries {
			filePath := filepath.Join(path, entry.Name())
			if entry.IsDir() {
				recInputs, err := EnumerateInputs([]string{filePath})
				if err != nil {
					return nil, err
				}
				inputFiles = append(inputFiles, recInputs...)
			} else {
				inputFiles = append(inputFiles, filePath)
			}
		}
	}

	return inputFiles, nil
}

// CorpusEntryName derives the file name of a corpus entry from its content,
// so that duplicates are stored only once.
func CorpusEntryName(data []byte) string {
	hasher := sha3.NewLegacyKeccak256()
	hasher.Write(data)
	return fmt.Sprintf("%x", hasher.Sum(nil))
}

// WriteCorpusEntry stores the given input in the given directory and returns
// the path of the resulting file.
func WriteCorpusEntry(dir string, data []byte) (string, error) {
	path := filepath.Join(dir, CorpusEntryName(data))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write corpus entry: %w", err)
	}
	return path, nil
}
