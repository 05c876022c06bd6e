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
	"bytes"
	"errors"
	"fmt"
	"os"
	"sync"
)

type issue struct {
	input []byte
	err   error
}

func (i *issue) Error() error {
	return i.err
}

func (i *issue) Input() []byte {
	return i.input
}

type IssuesCollector struct {
	issues []issue
	mu     sync.Mutex
}

func (c *IssuesCollector) AddIssue(input []byte, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.issues = append(c.issues, issue{bytes.Clone(input), err})
}

func (c *IssuesCollector) NumIssues() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.issues)
}

func (c *IssuesCollector) GetIssues() []issue {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.issues
}

// Err combines all collected issues into a single error, nil if there are
// none.
func (c *IssuesCollector) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	errs := make([]error, 0, len(c.issues))
	for _, issue := range c.issues {
		errs = append(errs, issue.err)
	}
	return errors.Join(errs...)
}

// ExportIssues prints all issues and dumps the inputs causing them into a
// temporary directory, from where they can be replayed using the run
// command. The directory is returned, or an empty string if there are no
// issues to export.
func (c *IssuesCollector) ExportIssues() (string, error) {
	issues := c.GetIssues()
	if len(issues) == 0 {
		return "", nil
	}
	dir, err := os.MkdirTemp("", "beacon_roots_issues_*")
	if err != nil {
		return "", fmt.Errorf("failed to create output directory for %d issues", len(issues))
	}
	for _, issue := range issues {
		fmt.Printf("----------------------------\n")
		fmt.Printf("%s\n", issue.err)

		if issue.input != nil {
			if path, err := WriteCorpusEntry(dir, issue.input); err == nil {
				fmt.Printf("Input dumped to %s\n", path)
			} else {
				fmt.Printf("failed to dump input: %v\n", err)
			}
		}
	}
	return dir, nil
}
