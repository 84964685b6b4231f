package detector

import (
	"bufio"
	"context"
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	jsoniter "github.com/json-iterator/go"
	"gocv.io/x/gocv"

	"github.com/ayusman/asana/internal/log"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const serviceScript = "landmark_service.py"

// MediaPipeDetector implements Detector using a Python MediaPipe subprocess.
//
// Wire format per request: 4-byte big-endian payload length, one target byte
// ('P' pose, 'H' hand), then a JPEG-encoded frame. The service answers with
// one JSON line.
type MediaPipeDetector struct {
	config    Config
	script    string
	cmd       *exec.Cmd
	stdin     io.WriteCloser
	stdout    *bufio.Reader
	mu        sync.Mutex
	started   bool
	idleTimer *time.Timer
}

// NewMediaPipeDetector creates a new MediaPipe detector.
// The Python process is started lazily on first detection.
func NewMediaPipeDetector(config Config) (*MediaPipeDetector, error) {
	script := findServiceScript()
	if script == "" {
		return nil, fmt.Errorf("%s: %w", serviceScript, ErrServiceNotFound)
	}

	return &MediaPipeDetector{
		config: config,
		script: script,
	}, nil
}

// Detect sends a frame to the service and returns the decoded landmarks.
// The call blocks until the service answers; ctx is only checked before the
// request is written because a half-written request would desync the pipe.
func (d *MediaPipeDetector) Detect(ctx context.Context, frame *gocv.Mat, target Target) (Detection, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return Detection{}, err
	}
	if frame == nil || frame.Empty() {
		return Detection{}, fmt.Errorf("detect: empty frame")
	}

	if err := d.ensureStarted(); err != nil {
		return Detection{}, err
	}

	captured := time.Now()

	buf, err := gocv.IMEncode(".jpg", *frame)
	if err != nil {
		return Detection{}, fmt.Errorf("encode frame: %w", err)
	}
	defer buf.Close()

	data := buf.GetBytes()

	header := make([]byte, 5)
	binary.BigEndian.PutUint32(header, uint32(len(data)))
	header[4] = targetByte(target)

	if _, err := d.stdin.Write(header); err != nil {
		d.fail()
		return Detection{}, fmt.Errorf("write header: %w", err)
	}
	if _, err := d.stdin.Write(data); err != nil {
		d.fail()
		return Detection{}, fmt.Errorf("write data: %w", err)
	}

	line, err := d.stdout.ReadBytes('\n')
	if err != nil {
		d.fail()
		return Detection{}, fmt.Errorf("read response: %w", err)
	}

	det, err := decodeResponse(line, frame.Cols(), frame.Rows())
	if err != nil {
		return Detection{}, err
	}
	det.CapturedAt = captured

	d.resetIdleTimer()

	return det, nil
}

// Close shuts down the Python process.
func (d *MediaPipeDetector) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.shutdown()
}

func (d *MediaPipeDetector) ensureStarted() error {
	if d.started {
		return nil
	}

	pythonPath := findVenvPython()
	if pythonPath == "" {
		pythonPath = "python3"
	}

	d.cmd = exec.Command(pythonPath, d.script,
		"--max-hands", fmt.Sprint(d.config.MaxHands),
		"--min-confidence", fmt.Sprint(d.config.MinConfidence),
	)

	stdin, err := d.cmd.StdinPipe()
	if err != nil {
		return fmt.Errorf("create stdin pipe: %w", err)
	}

	stdout, err := d.cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("create stdout pipe: %w", err)
	}

	d.cmd.Stderr = os.Stderr

	if err := d.cmd.Start(); err != nil {
		return fmt.Errorf("start landmark service: %w", err)
	}

	d.stdin = stdin
	d.stdout = bufio.NewReader(stdout)
	d.started = true

	log.Info(log.Fields{"script": d.script, "python": pythonPath}, "landmark service started")

	return nil
}

// fail tears the service down after a broken pipe so the next request
// starts a fresh process.
func (d *MediaPipeDetector) fail() {
	if err := d.shutdown(); err != nil {
		log.Warn(log.Fields{"error": err.Error()}, "landmark service exited")
	}
}

func (d *MediaPipeDetector) shutdown() error {
	if !d.started {
		return nil
	}

	if d.idleTimer != nil {
		d.idleTimer.Stop()
		d.idleTimer = nil
	}

	if d.stdin != nil {
		d.stdin.Close()
	}

	err := d.cmd.Wait()
	d.started = false
	d.cmd = nil
	d.stdin = nil
	d.stdout = nil

	return err
}

func (d *MediaPipeDetector) resetIdleTimer() {
	if d.config.IdleTimeout <= 0 {
		return
	}
	if d.idleTimer != nil {
		d.idleTimer.Stop()
	}
	d.idleTimer = time.AfterFunc(d.config.IdleTimeout, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		d.shutdown()
	})
}

func targetByte(t Target) byte {
	if t == TargetHand {
		return 'H'
	}
	return 'P'
}

func findServiceScript() string {
	execPath, err := os.Executable()
	var execDir string
	if err == nil {
		execDir = filepath.Dir(execPath)
	}

	candidates := []string{
		filepath.Join("scripts", serviceScript),
		filepath.Join("..", "scripts", serviceScript),
		filepath.Join(execDir, "scripts", serviceScript),
		filepath.Join(os.Getenv("HOME"), ".asana", "scripts", serviceScript),
	}

	return firstExisting(candidates)
}

// findVenvPython looks for a Python interpreter in a virtual environment.
func findVenvPython() string {
	execPath, err := os.Executable()
	if err != nil {
		return ""
	}
	execDir := filepath.Dir(execPath)

	candidates := []string{
		"venv/bin/python",
		"../venv/bin/python",
		"../../venv/bin/python",
		filepath.Join(execDir, "venv/bin/python"),
		filepath.Join(os.Getenv("HOME"), ".asana/venv/bin/python"),
	}

	return firstExisting(candidates)
}

func firstExisting(paths []string) string {
	for _, path := range paths {
		if _, err := os.Stat(path); err == nil {
			absPath, err := filepath.Abs(path)
			if err == nil {
				return absPath
			}
			return path
		}
	}
	return ""
}

// serviceResponse is the JSON line written by the landmark service.
// Coordinates are normalized to [0,1] unless Pixels is set.
type serviceResponse struct {
	Pose   []RawKeypoint `json:"pose"`
	Hands  []jsonHand    `json:"hands"`
	Pixels bool          `json:"pixels"`
	Error  string        `json:"error"`
}

type jsonHand struct {
	Points     []Point3D `json:"points"`
	Handedness string    `json:"handedness"`
	Score      float64   `json:"score"`
}

func decodeResponse(line []byte, width, height int) (Detection, error) {
	var resp serviceResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return Detection{}, fmt.Errorf("parse response: %w", err)
	}
	if resp.Error != "" {
		return Detection{}, fmt.Errorf("landmark service: %s", resp.Error)
	}

	var det Detection

	if len(resp.Pose) > 0 {
		raw := resp.Pose
		if !resp.Pixels {
			raw = make([]RawKeypoint, len(resp.Pose))
			for i, r := range resp.Pose {
				r.X *= float64(width)
				r.Y *= float64(height)
				raw[i] = r
			}
		}
		pose := Canonicalize(raw, width, height, 0)
		det.Pose = &pose
	}

	for _, h := range resp.Hands {
		if len(h.Points) < NumLandmarks {
			continue
		}
		lm := HandLandmarks{Handedness: h.Handedness, Score: h.Score}
		copy(lm.Points[:], h.Points)
		if !resp.Pixels {
			det.Hands = append(det.Hands, lm.Frame(width, height))
			continue
		}
		f := lm.Frame(0, 0)
		f.Width, f.Height = width, height
		det.Hands = append(det.Hands, f)
	}

	return det, nil
}
