package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/akmonengine/weave"
	"github.com/akmonengine/weave/geom"
	"github.com/akmonengine/weave/objio"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/pkg/errors"
	"github.com/plan-systems/klog"
)

func main() {
	fset := flag.NewFlagSet(os.Args[0], flag.ExitOnError)
	klog.InitFlags(fset)
	fset.Set("logtostderr", "true")
	fset.Set("v", "1")
	klog.SetFormatter(&klog.FmtConstWidth{
		FileNameCharWidth: 16,
		UseColor:          true,
	})

	ops := fset.String("ops", "", `processing script, e.g. "subdivide 1; simplify 200; remesh 3 0.5"`)
	out := fset.String("out", "", "output file, when a single mesh is processed")
	outdir := fset.String("outdir", ".", "output directory")
	gen := fset.String("gen", "", "process a generated solid: tetrahedron, octahedron, icosahedron, box or torus")
	workers := fset.Int("workers", weave.DEFAULT_WORKERS, "meshes processed in parallel")
	validate := fset.Bool("validate", false, "check the topology after every stage")
	weld := fset.Float64("weld", 0, "merge input points closer than this distance, negative to disable")
	fset.Usage = func() {
		fmt.Fprintf(fset.Output(), "usage: %s [flags] input.obj...\n", filepath.Base(os.Args[0]))
		fset.PrintDefaults()
	}
	fset.Parse(os.Args[1:])

	code := run(fset.Args(), *gen, *ops, *out, *outdir, *workers, *validate, *weld)
	klog.Flush()
	os.Exit(code)
}

func run(inputs []string, gen, ops, out, outdir string, workers int, validate bool, weld float64) int {
	var jobs []*weave.Job
	if gen != "" {
		solid, err := generate(gen)
		if err != nil {
			klog.Errorf("%v", err)
			return 2
		}
		jobs = append(jobs, &weave.Job{Name: gen, Points: solid.Points, Triangles: solid.Triangles})
	}
	for _, pathname := range inputs {
		points, triangles, err := objio.ReadFile(pathname)
		if err != nil {
			klog.Errorf("%v", err)
			return 1
		}
		name := strings.TrimSuffix(filepath.Base(pathname), filepath.Ext(pathname))
		jobs = append(jobs, &weave.Job{Name: name, Points: points, Triangles: triangles})
	}
	if len(jobs) == 0 {
		klog.Errorf("no input: pass OBJ files or -gen")
		return 2
	}
	if out != "" && len(jobs) > 1 {
		klog.Errorf("-out needs a single mesh, got %d", len(jobs))
		return 2
	}

	b := weave.Batch{Script: ops, Workers: workers, Validate: validate, Weld: weld}
	err := b.Run(jobs)
	if err != nil {
		klog.Errorf("%v", err)
	}

	code := 0
	for _, job := range jobs {
		if job.Err != nil {
			code = 1
			continue
		}
		target := out
		if target == "" {
			target = filepath.Join(outdir, job.Name+".obj")
		}
		points, triangles := job.Session.Export()
		if err := objio.WriteFile(target, points, triangles); err != nil {
			klog.Errorf("%v", err)
			code = 1
			continue
		}
		st := job.Session.Stats()
		klog.Infof("%s: wrote %d faces and %d vertices to %s (center %v, size %v, diagonal %g)",
			job.Name, st.Faces, st.Vertices, target, st.Bounds.Center(), st.Bounds.Size(), st.Bounds.Diagonal())
	}
	return code
}

func generate(name string) (geom.Solid, error) {
	switch name {
	case "tetrahedron":
		return geom.Tetrahedron(), nil
	case "octahedron":
		return geom.Octahedron(), nil
	case "icosahedron":
		return geom.Icosahedron(), nil
	case "box":
		return geom.Box(mgl64.Vec3{1, 1, 1}), nil
	case "torus":
		return geom.Torus(1, 0.3, 24, 12), nil
	}
	return geom.Solid{}, errors.Errorf("unknown solid %q", name)
}
