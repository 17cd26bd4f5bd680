package gui

import (
	"fmt"
	"log/slog"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
	"github.com/san-kum/spherebounce/internal/collider"
	"github.com/san-kum/spherebounce/internal/collision"
	"github.com/san-kum/spherebounce/internal/config"
	"github.com/san-kum/spherebounce/internal/experiment"
	"github.com/san-kum/spherebounce/internal/metrics"
	"github.com/san-kum/spherebounce/internal/particle"
)

// Theme Colors (Monochrome Hyper-Minimalist)
var (
	ColBg      = rl.NewColor(10, 10, 10, 255)
	ColAccent  = rl.NewColor(180, 180, 180, 255)
	ColSelect  = rl.NewColor(255, 255, 255, 255)
	ColText    = rl.NewColor(140, 140, 140, 255)
	ColTextDim = rl.NewColor(60, 60, 60, 255)
	ColGrid    = rl.NewColor(30, 30, 30, 255)
	ColCollide = rl.NewColor(90, 140, 200, 160)
)

const (
	screenW, screenH = 1280, 720
	telemetryLen     = 200
	fontPath         = "/usr/share/fonts/liberation/LiberationMono-Regular.ttf"
)

// App is the raylib window. The scene built by the experiment is the
// simulator's host, and the window draws its proxies and colliders.
type App struct {
	Config    *config.Config
	Log       *slog.Logger
	Exp       *experiment.Experiment
	Camera    rl.Camera3D
	Running   bool
	InMenu    bool
	Quit      bool
	Presets   []string
	Selected  int
	Telemetry []float64
	Err       error
	// ShowNormals draws plane normals and the emitter direction.
	ShowNormals bool
	Font        rl.Font
	// Sound is nil while muted.
	Sound *sound

	CamPosTarget rl.Vector3
	CamTgtTarget rl.Vector3
}

func initWindow() {
	rl.InitWindow(screenW, screenH, "spherebounce")
	rl.SetTargetFPS(60)
	rl.SetExitKey(0)
}

// loadFont uses Liberation Mono when installed and raylib's built-in font
// otherwise.
func loadFont() rl.Font {
	if _, err := os.Stat(fontPath); err != nil {
		return rl.GetFontDefault()
	}
	font := rl.LoadFontEx(fontPath, 32, nil, 0)
	rl.SetTextureFilter(font.Texture, rl.FilterBilinear)
	return font
}

// NewApp creates the window state. With cfg nil the app opens on the
// preset menu.
func NewApp(cfg *config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}
	app := &App{
		Log:         log,
		Presets:     config.ListPresets(),
		Font:        loadFont(),
		InMenu:      cfg == nil,
		Telemetry:   make([]float64, 0, telemetryLen),
		ShowNormals: true,
	}
	if cfg != nil {
		if err := app.loadScene(cfg); err != nil {
			return nil, err
		}
	}
	return app, nil
}

// Run opens a window on cfg and blocks until it is closed.
func Run(cfg *config.Config, log *slog.Logger) error {
	initWindow()
	defer rl.CloseWindow()
	app, err := NewApp(cfg, log)
	if err != nil {
		return err
	}
	app.RunLoop()
	return nil
}

// RunInteractive opens the window on the preset menu.
func RunInteractive(log *slog.Logger) error {
	return Run(nil, log)
}

func (a *App) RunLoop() {
	for !rl.WindowShouldClose() && !a.Quit {
		a.Update()
		a.Draw()
	}
	if a.Exp != nil && a.Exp.Simulator() != nil {
		a.Exp.Simulator().Close()
	}
	if a.Sound != nil {
		a.Sound.Close()
	}
}

func (a *App) loadScene(cfg *config.Config) error {
	exp := experiment.New(cfg, a.Log)
	if err := exp.Setup(nil); err != nil {
		return err
	}
	if a.Exp != nil {
		a.Exp.Simulator().Close()
	}
	exp.Simulator().AddContactObserver(soundObserver{a})
	a.Config, a.Exp = cfg, exp
	a.Camera = frameCamera(exp.Scene().Colliders())
	a.CamPosTarget = a.Camera.Position
	a.CamTgtTarget = a.Camera.Target
	a.Telemetry = a.Telemetry[:0]
	a.Running, a.InMenu, a.Err = true, false, nil
	return nil
}

func (a *App) Update() {
	if rl.IsKeyPressed(rl.KeyQ) {
		a.Quit = true
		return
	}

	if a.InMenu {
		a.updateMenu()
		return
	}

	if rl.IsKeyPressed(rl.KeyEscape) {
		a.InMenu, a.Running = true, false
		return
	}

	if a.Running {
		a.step(float64(rl.GetFrameTime()))
	}

	if rl.IsKeyPressed(rl.KeyN) {
		a.ShowNormals = !a.ShowNormals
	}
	if rl.IsKeyPressed(rl.KeyM) {
		a.toggleSound()
	}
	if rl.IsKeyPressed(rl.KeyLeftBracket) {
		a.tunePeriod(1.1)
	}
	if rl.IsKeyPressed(rl.KeyRightBracket) {
		a.tunePeriod(0.9)
	}
	a.updateCamera()

	if rl.IsKeyPressed(rl.KeySpace) {
		a.Running = !a.Running
	}
	if rl.IsKeyPressed(rl.KeyR) {
		if err := a.loadScene(a.Config); err != nil {
			a.Err = err
		}
	}
}

func (a *App) updateMenu() {
	if rl.IsKeyPressed(rl.KeyDown) || rl.IsKeyPressed(rl.KeyJ) {
		a.Selected++
	}
	if rl.IsKeyPressed(rl.KeyUp) || rl.IsKeyPressed(rl.KeyK) {
		a.Selected--
	}
	if a.Selected >= len(a.Presets) {
		a.Selected = 0
	}
	if a.Selected < 0 {
		a.Selected = len(a.Presets) - 1
	}
	if rl.IsKeyPressed(rl.KeyEnter) || rl.IsKeyPressed(rl.KeySpace) {
		if err := a.loadScene(config.GetPreset(a.Presets[a.Selected])); err != nil {
			a.Err = err
		}
	}
}

// step runs as many fixed ticks as fit in the frame time, at least one.
func (a *App) step(frame float64) {
	s := a.Exp.Simulator()
	dt := a.Config.Dt
	n := max(1, min(int(frame/dt+0.5), 20))
	for i := 0; i < n; i++ {
		if err := s.Advance(dt); err != nil {
			a.Err, a.Running = err, false
			return
		}
	}
	a.Telemetry = append(a.Telemetry, metrics.Total(s.Particles()))
	if len(a.Telemetry) > telemetryLen {
		a.Telemetry = a.Telemetry[1:]
	}
}

func (a *App) toggleSound() {
	if a.Sound != nil {
		a.Sound.Close()
		a.Sound = nil
		return
	}
	snd, err := startSound()
	if err != nil {
		a.Log.Warn("sound unavailable", "err", err)
		a.Err = err
		return
	}
	a.Sound = snd
}

// soundObserver forwards contacts to the sound while it is on.
type soundObserver struct{ app *App }

func (o soundObserver) OnContact(p *particle.Particle, c *collider.Collider, contact collision.Contact) {
	if o.app.Sound != nil {
		o.app.Sound.proc.OnContact(p, c, contact)
	}
}

func (a *App) tunePeriod(factor float64) {
	s := a.Exp.Simulator()
	if err := s.SetPeriod(s.Emitter().Period * factor); err != nil {
		a.Err = err
	}
}

func (a *App) updateCamera() {
	if rl.IsKeyDown(rl.KeyW) {
		a.CamPosTarget.Y += 0.2
	}
	if rl.IsKeyDown(rl.KeyS) {
		a.CamPosTarget.Y -= 0.2
	}
	if rl.IsKeyDown(rl.KeyA) {
		a.CamPosTarget = orbit(a.CamPosTarget, a.CamTgtTarget, -0.02)
	}
	if rl.IsKeyDown(rl.KeyD) {
		a.CamPosTarget = orbit(a.CamPosTarget, a.CamTgtTarget, 0.02)
	}

	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		a.CamPosTarget = orbit(a.CamPosTarget, a.CamTgtTarget, delta.X*0.005)
		a.CamPosTarget.Y += delta.Y * 0.05
	}

	wheel := rl.GetMouseWheelMove()
	if wheel != 0 {
		zoom := wheel * 1.5
		diff := rl.Vector3Subtract(a.CamTgtTarget, a.CamPosTarget)
		if rl.Vector3Length(diff) > 2.0 || zoom < 0 {
			a.CamPosTarget = rl.Vector3Add(a.CamPosTarget, rl.Vector3Scale(rl.Vector3Normalize(diff), zoom))
		}
	}

	lerp := min(5*rl.GetFrameTime(), 1)
	a.Camera.Position = rl.Vector3Lerp(a.Camera.Position, a.CamPosTarget, lerp)
	a.Camera.Target = rl.Vector3Lerp(a.Camera.Target, a.CamTgtTarget, lerp)
}

func (a *App) Draw() {
	rl.BeginDrawing()
	rl.ClearBackground(ColBg)

	if a.InMenu {
		a.drawMenu()
	} else {
		a.drawSim()
		a.DrawHUD()
	}

	rl.EndDrawing()
}

func (a *App) DrawHUD() {
	s := a.Exp.Simulator()
	stats := s.Stats()
	a.drawText("spherebounce", 30, 30, 24, ColSelect)
	a.drawText(fmt.Sprintf(":: %s", a.Config.Name), 230, 34, 16, ColText)

	lines := []string{
		fmt.Sprintf("t        %.2fs", s.Time()),
		fmt.Sprintf("spheres  %d/%d", s.Len(), s.Capacity()),
		fmt.Sprintf("spawned  %d", stats.Spawned),
		fmt.Sprintf("recycled %d", stats.Recycled),
		fmt.Sprintf("contacts %d", stats.Contacts),
		fmt.Sprintf("period   %.3fs", s.Emitter().Period),
	}
	for i, l := range lines {
		a.drawText(l, 30, 80+i*20, 14, ColText)
	}

	a.DrawTelemetry()
	a.drawLevels()

	status, col := "RUNNING", ColSelect
	if !a.Running {
		status, col = "PAUSED", ColTextDim
	}
	a.drawText(status, 1150, 30, 16, col)
	if a.Err != nil {
		a.drawText(a.Err.Error(), 30, 560, 14, rl.Red)
	}

	a.drawText("[SPACE] PAUSE  [R] RESET  [N] NORMALS  [M] SOUND  [ / ] PERIOD  [ESC] MENU  [Q] QUIT", 460, 680, 14, ColTextDim)
	a.drawText(fmt.Sprintf("%d FPS", int32(rl.GetFPS())), 30, 680, 14, ColTextDim)
}

func (a *App) drawText(text string, x, y int, size int, color rl.Color) {
	rl.DrawTextEx(a.Font, text, rl.NewVector2(float32(x), float32(y)), float32(size), 1, color)
}

func (a *App) drawSim() {
	rl.BeginMode3D(a.Camera)
	a.CustomGrid(40, 1.0)
	a.RenderColliders()
	a.RenderProxies()
	a.RenderEmitter()
	rl.EndMode3D()
}

// DrawTelemetry plots the recent kinetic energy as a line strip.
func (a *App) DrawTelemetry() {
	if len(a.Telemetry) < 2 {
		return
	}

	rectX, rectY := 30, 600
	width, height := 400, 60

	minVal, maxVal := a.Telemetry[0], a.Telemetry[0]
	for _, v := range a.Telemetry {
		minVal = min(minVal, v)
		maxVal = max(maxVal, v)
	}
	if maxVal == minVal {
		maxVal = minVal + 1
	}

	points := make([]rl.Vector2, len(a.Telemetry))
	for i, val := range a.Telemetry {
		px := float32(rectX) + (float32(i)/float32(len(a.Telemetry)))*float32(width)
		norm := (val - minVal) / (maxVal - minVal)
		py := float32(rectY+height) - float32(norm)*float32(height)
		points[i] = rl.NewVector2(px, py)
	}

	rl.DrawLineStrip(points, ColAccent)
	a.drawText(fmt.Sprintf("KE: %.2e", a.Telemetry[len(a.Telemetry)-1]), rectX+width+10, rectY+height-10, 14, ColText)
}

// drawLevels shows the output band levels while sound is on.
func (a *App) drawLevels() {
	if a.Sound == nil {
		return
	}
	bass, mid, high := a.Sound.proc.Levels()
	for i, v := range []float64{bass, mid, high} {
		h := int32(v * 60)
		rl.DrawRectangle(int32(1150+i*18), 660-h, 12, h, ColAccent)
	}
	a.drawText("SOUND", 1150, 600, 12, ColTextDim)
}

func (a *App) drawMenu() {
	a.drawText("spherebounce", 50, 50, 40, ColSelect)
	a.drawText("Select Scene", 50, 100, 16, ColTextDim)

	y := 160
	for i, name := range a.Presets {
		if i == a.Selected {
			a.drawText(fmt.Sprintf("> %s", name), 50, y, 20, ColSelect)
		} else {
			a.drawText(fmt.Sprintf("  %s", name), 50, y, 20, ColText)
		}
		y += 28
	}
	if a.Err != nil {
		a.drawText(a.Err.Error(), 50, y+20, 14, rl.Red)
	}

	a.drawText("ARROWS: NAVIGATE  ENTER: SELECT  Q: QUIT", 850, 680, 14, ColTextDim)
}
