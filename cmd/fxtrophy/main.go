// fxtrophy - fixed-point 3D model viewer for the terminal.
// Renders GLB/glTF files (or a built-in cube) with the integer-only
// scanline rasterizer.
//
// Controls:
//
//	Mouse drag  - Rotate model (yaw/pitch)
//	Scroll      - Zoom in/out
//	W/S         - Pitch up/down
//	A/D         - Yaw left/right
//	Q/E         - Roll left/right
//	Space       - Apply random impulse
//	R           - Reset rotation
//	V           - Cycle rasterizer variant
//	X           - Toggle wireframe overlay
//	L           - Light positioning mode (move mouse, click to set, Esc to cancel)
//	?           - Toggle HUD overlay
//	+/-         - Adjust zoom
//	Esc         - Quit (or cancel light mode)
package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"log/slog"
	"math"
	"math/rand/v2"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"
	"github.com/taigrr/fxtrophy/pkg/fixed"
	"github.com/taigrr/fxtrophy/pkg/math3d"
	"github.com/taigrr/fxtrophy/pkg/models"
	"github.com/taigrr/fxtrophy/pkg/raster"
	"github.com/taigrr/fxtrophy/pkg/render"
)

var (
	texturePath = flag.String("texture", "", "Path to texture image (PNG/JPG)")
	targetFPS   = flag.Int("fps", 30, "Target FPS")
	bgColor     = flag.String("bg", "30,30,40", "Background color (R,G,B)")
	variantName = flag.String("variant", "perspective-gouraud", "Rasterizer variant ("+strings.Join(raster.VariantNames(), ", ")+")")
	bands       = flag.Int("bands", 1, "Horizontal bands rasterized in parallel")
	shadows     = flag.Bool("shadows", false, "Add a floor and cast shadows (per-fragment variants only)")
	pngPath     = flag.String("png", "", "Render a single frame to this PNG file and exit")
	pngSize     = flag.String("size", "320x240", "Image size for -png (WxH)")
	verbose     = flag.Bool("v", false, "Log per-frame statistics to stderr")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "fxtrophy - fixed-point terminal 3D model viewer\n\n")
		fmt.Fprintf(os.Stderr, "Usage: fxtrophy [options] [model.glb|model.gltf]\n\n")
		fmt.Fprintf(os.Stderr, "Without a model a textured cube is shown.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  Mouse drag  - Rotate model\n")
		fmt.Fprintf(os.Stderr, "  Scroll      - Zoom in/out\n")
		fmt.Fprintf(os.Stderr, "  W/S/A/D     - Pitch and yaw\n")
		fmt.Fprintf(os.Stderr, "  Q/E         - Roll left/right\n")
		fmt.Fprintf(os.Stderr, "  Space       - Random spin\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  V           - Cycle variant\n")
		fmt.Fprintf(os.Stderr, "  X           - Toggle wireframe\n")
		fmt.Fprintf(os.Stderr, "  L           - Position light (mouse to aim, click to set)\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Quit\n")
	}
	flag.Parse()

	if *verbose {
		raster.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	var err error
	if *pngPath != "" {
		err = renderPNG(flag.Arg(0))
	} else {
		err = run(flag.Arg(0))
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// RotationAxis tracks position and velocity for one rotation axis. The
// velocity decays toward zero through a critically damped spring.
type RotationAxis struct {
	Position  float64 // degrees
	Velocity  float64 // degrees per frame
	velSpring harmonica.Spring
	velAccel  float64
}

// NewRotationAxis creates an axis whose spring runs at fps.
func NewRotationAxis(fps int) RotationAxis {
	return RotationAxis{
		velSpring: harmonica.NewSpring(harmonica.FPS(fps), 4.0, 1.0),
	}
}

// Update applies velocity to position and eases velocity toward 0.
func (a *RotationAxis) Update() {
	a.Position = math.Mod(a.Position+a.Velocity, 360)
	a.Velocity, a.velAccel = a.velSpring.Update(a.Velocity, a.velAccel, 0)
}

// RotationState holds the model's spin.
type RotationState struct {
	Pitch, Yaw, Roll RotationAxis
	fps              int
}

func NewRotationState(fps int) *RotationState {
	r := &RotationState{fps: fps}
	r.Reset()
	return r
}

func (r *RotationState) Update() {
	r.Pitch.Update()
	r.Yaw.Update()
	r.Roll.Update()
}

func (r *RotationState) ApplyImpulse(pitch, yaw, roll float64) {
	r.Pitch.Velocity += pitch
	r.Yaw.Velocity += yaw
	r.Roll.Velocity += roll
}

func (r *RotationState) Reset() {
	r.Pitch = NewRotationAxis(r.fps)
	r.Yaw = NewRotationAxis(r.fps)
	r.Roll = NewRotationAxis(r.fps)
}

// Matrix returns the model matrix: roll, then pitch, then yaw.
func (r *RotationState) Matrix(m *math3d.Mat4) *math3d.Mat4 {
	var rx, ry math3d.Mat4
	math3d.RotationZ(m, fixed.FromFloat(r.Roll.Position))
	math3d.RotationX(&rx, fixed.FromFloat(r.Pitch.Position))
	math3d.RotationY(&ry, fixed.FromFloat(r.Yaw.Position))
	m.Mul(m, &rx)
	return m.Mul(m, &ry)
}

// ViewState holds UI state that is not part of the renderer.
type ViewState struct {
	Wireframe    bool
	LightMode    bool
	ShowHUD      bool
	Light        render.Light
	PendingLight render.Light
	variant      int
}

// NewViewState creates the default view state starting at variant v.
func NewViewState(v raster.Variant) *ViewState {
	s := &ViewState{Light: render.DefaultLight()}
	for i, name := range raster.VariantNames() {
		if name == v.String() {
			s.variant = i
		}
	}
	return s
}

// NextVariant cycles through the predefined variants.
func (s *ViewState) NextVariant() raster.Variant {
	names := raster.VariantNames()
	s.variant = (s.variant + 1) % len(names)
	v, _ := raster.ParseVariant(names[s.variant])
	return v
}

// ScreenToLight maps a screen position onto a hemisphere facing the
// viewer and returns a light shining from there.
func (s *ViewState) ScreenToLight(screenX, screenY, width, height int) render.Light {
	nx := (float64(screenX)/float64(width))*2 - 1
	ny := (float64(screenY)/float64(height))*2 - 1

	lenSq := nx*nx + ny*ny
	if lenSq > 1 {
		l := math.Sqrt(lenSq)
		nx /= l
		ny /= l
		lenSq = 1
	}
	nz := math.Sqrt(1 - lenSq)

	dir := math3d.Dir(fixed.FromFloat(nx), fixed.FromFloat(-ny), fixed.FromFloat(nz))
	return render.NewLight(dir, s.Light.Ambient)
}

// HUD renders an overlay with model info and frame statistics.
type HUD struct {
	filename  string
	polyCount int
	fps       float64
	fpsFrames int
	fpsTime   time.Time
}

// NewHUD creates a new HUD.
func NewHUD(filename string, polyCount int) *HUD {
	return &HUD{
		filename:  filename,
		polyCount: polyCount,
		fpsTime:   time.Now(),
	}
}

// UpdateFPS updates the FPS counter (call once per frame).
func (h *HUD) UpdateFPS() {
	h.fpsFrames++
	elapsed := time.Since(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = time.Now()
	}
}

// Render draws the HUD directly to the terminal after the frame.
func (h *HUD) Render(width, height int, view *ViewState, variant raster.Variant, stats render.FrameStats) {
	const (
		reset     = "\x1b[0m"
		bold      = "\x1b[1m"
		dim       = "\x1b[2m"
		bgBlack   = "\x1b[40m"
		fgWhite   = "\x1b[97m"
		fgGreen   = "\x1b[92m"
		fgYellow  = "\x1b[93m"
		fgCyan    = "\x1b[96m"
		clearLine = "\x1b[2K"
	)
	moveTo := func(row, col int) string {
		return fmt.Sprintf("\x1b[%d;%dH", row, col)
	}

	// clear the HUD rows even when hidden so toggling off works
	fmt.Print(moveTo(1, 1) + clearLine)
	fmt.Print(moveTo(height, 1) + clearLine)

	if view.LightMode {
		msg := fmt.Sprintf("%s%s%s ◉ LIGHT MODE - Move mouse to position, click to set, Esc to cancel %s",
			bgBlack, bold, fgYellow, reset)
		fmt.Print(moveTo(height, max((width-60)/2, 1)) + msg)
		return
	}
	if !view.ShowHUD {
		return
	}

	fmt.Printf("%s%s%s %.0f FPS %s", moveTo(1, 1), bgBlack, fgGreen, h.fps, reset)

	title := fmt.Sprintf("%s%s%s %s %s", bold, bgBlack, fgWhite, h.filename, reset)
	fmt.Print(moveTo(1, max((width-len(h.filename)-2)/2, 1)) + title)

	polys := fmt.Sprintf("%s%s%s %d polys %s", bgBlack, fgCyan, bold, h.polyCount, reset)
	fmt.Print(moveTo(1, max(width-12, 1)) + polys)

	wire := "[ ]"
	if view.Wireframe {
		wire = "[✓]"
	}
	status := fmt.Sprintf("%s%s %s  %s X-Ray  %d/%d drawn  %d px %s",
		bgBlack, fgWhite, variant, wire, stats.Drawn, stats.Tested, stats.Fragments, reset)
	fmt.Print(moveTo(height, 1) + status)

	hint := fmt.Sprintf("%s%s%s V: variant  L: light %s", bgBlack, dim, fgYellow, reset)
	fmt.Print(moveTo(height, max(width-24, 1)) + hint)
}

// scene is everything drawn each frame.
type scene struct {
	mesh    *models.Mesh
	floor   *models.Mesh
	texture *render.Texture
	shadow  *render.ShadowMap

	model      math3d.Mat4
	floorModel math3d.Mat4
}

// loadScene loads the model at path, or a cube when path is empty, and
// scales it to fit a 2-unit box at the origin.
func loadScene(path string) (*scene, error) {
	var (
		texture *render.Texture
		mesh    *models.Mesh
		err     error
	)
	if *texturePath != "" {
		texture, err = render.LoadTexture(*texturePath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: could not load texture: %v\n", err)
		}
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case "":
		mesh = models.NewCube(fixed.FromInt(2))
	case ".glb", ".gltf":
		var embedded image.Image
		mesh, embedded, err = models.LoadGLBWithTexture(path)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		if texture == nil && embedded != nil {
			texture = render.TextureFromImage(embedded)
		}
	default:
		return nil, fmt.Errorf("unsupported format: %s (use .glb or .gltf)", ext)
	}

	if texture == nil {
		texture = render.NewCheckerTexture(64, 64, 8, render.RGB(200, 200, 200), render.RGB(100, 100, 100))
	}

	// center and scale to a 2-unit box
	size := mesh.Size()
	maxDim := fixed.Max3(size.X, size.Y, size.Z)
	if maxDim > 0 {
		center := mesh.Center()
		scale := fixed.Div(fixed.FromInt(2), maxDim)
		var move, grow, m math3d.Mat4
		math3d.Translation(&move, -center.X, -center.Y, -center.Z)
		math3d.Scaling(&grow, scale, scale, scale)
		mesh.Transform(m.Mul(&move, &grow))
	}

	s := &scene{mesh: mesh, texture: texture}
	s.model.SetIdentity()
	if *shadows {
		s.floor = models.NewPlane(fixed.FromInt(4))
		math3d.Translation(&s.floorModel, 0, -fixed.FromFloat(1.5), 0)
	}
	return s, nil
}

// draw renders one frame of the scene.
func (s *scene) draw(ctx context.Context, r *render.Renderer, bg render.Color) (render.FrameStats, error) {
	if s.floor != nil {
		if s.shadow == nil {
			sm, err := render.NewShadowMap(256, r.Light, math3d.PointInt(0, 0, 0), fixed.FromInt(3))
			if err != nil {
				return render.FrameStats{}, err
			}
			s.shadow = sm
		}
		s.shadow.Clear()
		s.shadow.Render(s.mesh, &s.model)
		s.shadow.Render(s.floor, &s.floorModel)
		r.Shadow = s.shadow
	}

	r.BeginFrame(bg)
	if err := r.DrawMesh(ctx, s.mesh, &s.model, s.texture); err != nil {
		return render.FrameStats{}, err
	}
	if s.floor != nil {
		if err := r.DrawMesh(ctx, s.floor, &s.floorModel, nil); err != nil {
			return render.FrameStats{}, err
		}
	}
	return r.EndFrame(), nil
}

// setLight changes the light, rebuilding the shadow map for it.
func (s *scene) setLight(r *render.Renderer, l render.Light) {
	r.Light = l
	s.shadow = nil
	r.Shadow = nil
}

func parseBackground() render.Color {
	var bgR, bgG, bgB uint8 = 30, 30, 40
	fmt.Sscanf(*bgColor, "%d,%d,%d", &bgR, &bgG, &bgB)
	return render.RGB(bgR, bgG, bgB)
}

func newRenderer(fb *render.Framebuffer) (*render.Renderer, error) {
	variant, err := raster.ParseVariant(*variantName)
	if err != nil {
		return nil, err
	}
	r, err := render.NewRenderer(fb, render.NewCamera())
	if err != nil {
		return nil, err
	}
	r.Variant = variant
	r.Bands = *bands
	if *shadows {
		r.Camera.SetPosition(math3d.PointInt(0, 2, 5))
		r.Camera.LookAt(math3d.PointInt(0, 0, 0))
	}
	return r, nil
}

// renderPNG draws one frame off screen and saves it.
func renderPNG(modelPath string) error {
	var w, h int
	if _, err := fmt.Sscanf(*pngSize, "%dx%d", &w, &h); err != nil {
		return fmt.Errorf("parse size %q: %w", *pngSize, err)
	}
	fb := render.NewFramebuffer(w, h)
	r, err := newRenderer(fb)
	if err != nil {
		return err
	}
	s, err := loadScene(modelPath)
	if err != nil {
		return err
	}
	math3d.RotationY(&s.model, fixed.FromInt(30))

	if _, err := s.draw(context.Background(), r, parseBackground()); err != nil {
		return err
	}
	return fb.SavePNG(*pngPath)
}

func run(modelPath string) error {
	bg := parseBackground()

	s, err := loadScene(modelPath)
	if err != nil {
		return err
	}
	name := "cube"
	if modelPath != "" {
		name = filepath.Base(modelPath)
	}
	hud := NewHUD(name, s.mesh.TriangleCount())

	term := uv.DefaultTerminal()
	width, height, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}
	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}
	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(width, height)

	fmt.Fprint(os.Stdout, "\x1b[?1003h") // any-event mouse tracking
	fmt.Fprint(os.Stdout, "\x1b[?1006h") // SGR extended mouse mode

	cleanup := func() {
		fmt.Fprint(os.Stdout, "\x1b[?1003l")
		fmt.Fprint(os.Stdout, "\x1b[?1006l")
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	// two framebuffer rows per terminal row
	fb := render.NewFramebuffer(width, height*2)
	r, err := newRenderer(fb)
	if err != nil {
		return err
	}
	wire := render.NewWireframe(r.Camera, fb, r.Frustum())
	view := NewViewState(r.Variant)
	rotation := NewRotationState(*targetFPS)

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	var (
		mouseDown              bool
		lastMouseX, lastMouseY int
		stats                  render.FrameStats
	)
	zoom := func(delta fixed.Scalar) {
		pos := r.Camera.Position
		pos.Z = fixed.Clamp(pos.Z+delta, fixed.One, fixed.FromInt(20))
		r.Camera.SetPosition(pos)
	}
	const torque = 1.5 // degrees per frame per key press

	ticker := time.NewTicker(time.Second / time.Duration(max(*targetFPS, 1)))
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev := <-term.Events():
			switch ev := ev.(type) {
			case uv.WindowSizeEvent:
				width, height = ev.Width, ev.Height
				term.Erase()
				term.Resize(width, height)
				fb = render.NewFramebuffer(width, height*2)
				if err := r.SetFramebuffer(fb); err != nil {
					return err
				}
				wire = render.NewWireframe(r.Camera, fb, r.Frustum())

			case uv.KeyPressEvent:
				switch {
				case ev.MatchString("escape"):
					if !view.LightMode {
						return nil
					}
					view.LightMode = false
					r.Light = view.Light
				case ev.MatchString("ctrl+c"):
					return nil
				case ev.MatchString("w", "up"):
					rotation.ApplyImpulse(-torque, 0, 0)
				case ev.MatchString("s", "down"):
					rotation.ApplyImpulse(torque, 0, 0)
				case ev.MatchString("a", "left"):
					rotation.ApplyImpulse(0, -torque, 0)
				case ev.MatchString("d", "right"):
					rotation.ApplyImpulse(0, torque, 0)
				case ev.MatchString("q"):
					rotation.ApplyImpulse(0, 0, -torque)
				case ev.MatchString("e"):
					rotation.ApplyImpulse(0, 0, torque)
				case ev.MatchString("space"):
					rotation.ApplyImpulse(
						(rand.Float64()-0.5)*20,
						(rand.Float64()-0.5)*20,
						(rand.Float64()-0.5)*20,
					)
				case ev.MatchString("r"):
					rotation.Reset()
				case ev.MatchString("+", "="):
					zoom(-fixed.Half)
				case ev.MatchString("-", "_"):
					zoom(fixed.Half)
				case ev.MatchString("v"):
					r.Variant = view.NextVariant()
				case ev.MatchString("x"):
					view.Wireframe = !view.Wireframe
				case ev.MatchString("l"):
					view.LightMode = true
					view.PendingLight = r.Light
				case ev.MatchString("?"), ev.MatchString("shift+/"):
					view.ShowHUD = !view.ShowHUD
				}

			case uv.MouseClickEvent:
				if view.LightMode {
					view.Light = view.PendingLight
					view.LightMode = false
					s.setLight(r, view.Light)
				} else {
					mouseDown = true
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseReleaseEvent:
				mouseDown = false

			case uv.MouseMotionEvent:
				switch {
				case view.LightMode:
					view.PendingLight = view.ScreenToLight(ev.X, ev.Y, width, height)
					r.Light = view.PendingLight
				case mouseDown:
					dx, dy := ev.X-lastMouseX, ev.Y-lastMouseY
					rotation.ApplyImpulse(float64(dy)*2, float64(dx)*2, 0)
					lastMouseX, lastMouseY = ev.X, ev.Y
				}

			case uv.MouseWheelEvent:
				switch ev.Button {
				case uv.MouseWheelUp:
					zoom(-fixed.Half)
				case uv.MouseWheelDown:
					zoom(fixed.Half)
				}
			}

		case <-ticker.C:
			rotation.Update()
			rotation.Matrix(&s.model)

			stats, err = s.draw(ctx, r, bg)
			if err != nil {
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			if view.Wireframe {
				wire.DrawMesh(s.mesh, &s.model, render.RGB(0, 255, 128))
			}

			fb.Draw(term, uv.Rect(0, 0, width, height))
			if err := term.Display(); err != nil {
				return fmt.Errorf("display: %w", err)
			}

			hud.UpdateFPS()
			hud.Render(width, height, view, r.Variant, stats)
		}
	}
}
