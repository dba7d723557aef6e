package weave

import (
	"sync"

	"github.com/akmonengine/weave/geom"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

const DEFAULT_WORKERS = 1

// Job is one mesh processed by a Batch. Session and Err are filled in by Run, which
// also replaces Points and Triangles with their welded form.
type Job struct {
	Name      string
	Points    []mgl64.Vec3
	Triangles [][3]int

	Session *Session
	Err     error
}

// Batch applies the same script to independent meshes, each on its own session.
// Before building a mesh, points closer than Weld are merged; a negative Weld
// leaves the input untouched.
type Batch struct {
	Script   string
	Workers  int
	Validate bool
	Weld     float64
}

// Run processes every job and returns the first job error, if any. Jobs that
// failed keep their error in Err; the others hold their processed Session.
func (b *Batch) Run(jobs []*Job) error {
	b.Workers = max(DEFAULT_WORKERS, b.Workers)

	script, err := ParseScript(b.Script)
	if err != nil {
		return err
	}

	task(b.Workers, jobs, func(job *Job) {
		if b.Weld >= 0 {
			var merged int
			job.Points, job.Triangles, merged = geom.Weld(job.Points, job.Triangles, b.Weld)
			if merged > 0 {
				klog.V(1).Infof("%s: welded %d points", job.Name, merged)
			}
		}

		s, err := NewSession(job.Points, job.Triangles)
		if err != nil {
			job.Err = errors.Wrapf(err, "%s", job.Name)
			return
		}
		s.Name = job.Name
		s.Validate = b.Validate
		klog.V(1).Infof("%s: loaded %d faces and %d vertices, diagonal %g", job.Name, s.Mesh.NumFaces(), s.Mesh.NumVertices(), geom.Bounds(job.Points).Diagonal())

		if err := s.Apply(script); err != nil {
			job.Err = err
			return
		}
		job.Session = s
	})

	for _, job := range jobs {
		if job.Err != nil {
			return job.Err
		}
	}
	return nil
}

// task splits data into one contiguous chunk per worker.
func task[T any](workersCount int, data []T, fn func(data T)) {
	var wg sync.WaitGroup
	dataSize := len(data)
	chunkSize := (dataSize + workersCount - 1) / workersCount

	for workerID := 0; workerID < workersCount; workerID++ {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			for i := start; i < end; i++ {
				fn(data[i])
			}
		}(workerID*chunkSize, min((workerID+1)*chunkSize, dataSize))
	}
	wg.Wait()
}
