/*
Copyright © 2021 the griddata authors.
This file is part of griddata.

griddata is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

griddata is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with griddata.  If not, see <http://www.gnu.org/licenses/>.
*/

package griddatautil

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/BurntSushi/toml"
	"github.com/ctessum/requestcache"
	"github.com/sirupsen/logrus"
)

// Batch is a set of jobs, as read from a TOML file with one [[Job]]
// table per job.
type Batch struct {
	Job []*Job
}

// ReadBatch reads a batch file. Relative file paths in the jobs are
// taken to be relative to the directory of the batch file, and
// environment variables in them are expanded.
func ReadBatch(path string) (*Batch, error) {
	b := new(Batch)
	md, err := toml.DecodeFile(path, b)
	if err != nil {
		return nil, fmt.Errorf("griddata: reading batch file: %v", err)
	}
	if u := md.Undecoded(); len(u) > 0 {
		return nil, fmt.Errorf("griddata: unknown keys in batch file %s: %v", path, u)
	}
	dir := filepath.Dir(path)
	fix := func(p string) string {
		if p == "" {
			return p
		}
		p = os.ExpandEnv(p)
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		return p
	}
	for i, j := range b.Job {
		if j.Name == "" {
			j.Name = fmt.Sprintf("job%d", i)
		}
		j.Input = fix(j.Input)
		j.Points = fix(j.Points)
		j.Output = fix(j.Output)
	}
	return b, nil
}

// Run runs the jobs concurrently. Jobs with the same source settings
// share the loaded sources and their indexes, of which up to
// cacheSize are kept in memory. The summaries are returned in job
// order, along with the first error encountered.
func (b *Batch) Run(ctx context.Context, cacheSize int, log logrus.FieldLogger) ([]Summary, error) {
	if cacheSize < 1 {
		cacheSize = 1
	}
	c := requestcache.NewCache(func(ctx context.Context, request interface{}) (interface{}, error) {
		return request.(*Job).newSource(log)
	}, 1, requestcache.Deduplicate(), requestcache.Memory(cacheSize))

	sums := make([]Summary, len(b.Job))
	errs := make([]error, len(b.Job))
	var wg sync.WaitGroup
	wg.Add(len(b.Job))
	for i, j := range b.Job {
		go func(i int, j *Job) {
			defer wg.Done()
			sums[i], errs[i] = j.Run(ctx, c, log)
		}(i, j)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			return sums, fmt.Errorf("griddata: job %s: %v", b.Job[i].Name, err)
		}
	}
	return sums, nil
}
