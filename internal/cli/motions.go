package cli

import (
	"fmt"
	"sort"

	"github.com/teslashibe/go-motion/internal/log"
	"github.com/teslashibe/go-motion/pkg/control"
	"github.com/teslashibe/go-motion/pkg/joints"
	"github.com/teslashibe/go-motion/pkg/motion"
	"github.com/teslashibe/go-motion/pkg/motionfile"
	"github.com/teslashibe/go-motion/pkg/web"
)

const (
	sourceEmbedded = "embedded"
	sourceDir      = "dir"
)

// loadedMotion is a motion file together with where it came from.
type loadedMotion struct {
	file   *motionfile.MotionFile[joints.Joints]
	source string
}

// library holds every motion available to the commands, keyed by name.
type library struct {
	names   []string
	motions map[string]loadedMotion
}

// loadLibrary loads the embedded motions and lets files in dir replace
// them by name or add new ones.
func loadLibrary(dir string, tolerance float64) (*library, error) {
	lib := &library{motions: make(map[string]loadedMotion)}

	names, err := motionfile.ListEmbedded()
	if err != nil {
		return nil, err
	}
	for _, name := range names {
		mf, err := motionfile.LoadEmbedded[joints.Joints](name)
		if err != nil {
			return nil, err
		}
		lib.add(mf, sourceEmbedded)
	}

	if dir != "" {
		files, err := motionfile.LoadFromDirectory[joints.Joints](dir)
		if err != nil {
			return nil, err
		}
		for _, mf := range files {
			if _, ok := lib.motions[mf.Name]; ok {
				log.Info("motion overridden", "motion", mf.Name, "dir", dir)
			}
			lib.add(mf, sourceDir)
		}
	}

	for _, m := range lib.motions {
		m.file.DefaultStabilizedTolerance(tolerance)
	}
	sort.Strings(lib.names)
	return lib, nil
}

func (l *library) add(mf *motionfile.MotionFile[joints.Joints], source string) {
	if _, ok := l.motions[mf.Name]; !ok {
		l.names = append(l.names, mf.Name)
	}
	l.motions[mf.Name] = loadedMotion{file: mf, source: source}
}

func (l *library) get(name string) (loadedMotion, error) {
	m, ok := l.motions[name]
	if !ok {
		return loadedMotion{}, fmt.Errorf("%w: %q", motionfile.ErrNotFound, name)
	}
	return m, nil
}

// interpolator builds a fresh playback state machine for name.
func (l *library) interpolator(name string) (*motion.Interpolator[joints.Joints], error) {
	m, err := l.get(name)
	if err != nil {
		return nil, err
	}
	interp, err := motion.FromMotionFile(m.file)
	if err != nil {
		return nil, fmt.Errorf("motion %q: %w", name, err)
	}
	return interp, nil
}

// executors builds one executor per stand-up motion and returns the pose
// the robot stands in once a stand-up motion has finished.
func (l *library) executors() ([]*control.Executor[joints.Joints], joints.Joints, error) {
	var (
		execs     []*control.Executor[joints.Joints]
		standPose joints.Joints
	)
	for _, mt := range control.MotionTypes() {
		if !mt.IsStandUp() {
			continue
		}
		interp, err := l.interpolator(mt.String())
		if err != nil {
			return nil, joints.Joints{}, err
		}
		if mt == control.StandUpFront {
			standPose = interp.EndValue()
		}
		execs = append(execs, control.NewExecutor(mt, interp))
	}
	return execs, standPose, nil
}

// infos describes every motion for the dashboard and the list command.
func (l *library) infos() []web.MotionInfo {
	infos := make([]web.MotionInfo, 0, len(l.names))
	for _, name := range l.names {
		m := l.motions[name]
		infos = append(infos, web.MotionInfo{
			Name:        name,
			Description: m.file.Description,
			Mode:        m.file.InterpolationMode.String(),
			Frames:      len(m.file.Motion),
			DurationSec: m.file.Duration().Seconds(),
			Source:      m.source,
		})
	}
	return infos
}
