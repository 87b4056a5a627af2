package server

import (
	"os"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"

	"dramaflow/internal/app"
	"dramaflow/internal/routing"
	"dramaflow/internal/script"
	"dramaflow/internal/voice"
)

// Handler 把应用能力挂到 HTTP 路由上
type Handler struct {
	app *app.Application
}

// Register 注册全部路由
func Register(f *fiber.App, application *app.Application) {
	h := &Handler{app: application}
	f.Get("/", h.root)
	f.Get("/health", h.health)
	f.Get("/voices", h.voices)
	f.Post("/analyze", h.analyze)
	f.Post("/synthesize", h.synthesize)
	f.Post("/generate", h.generate)
}

func (h *Handler) root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"service": "dramaflow",
		"status":  "running",
	})
}

func (h *Handler) health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":   "healthy",
		"backends": h.app.Health(),
	})
}

// voices 列出可用音色池与支持的情感标签，供前端组装音色覆盖
func (h *Handler) voices(c *fiber.Ctx) error {
	pools := voice.DefaultPools
	return c.JSON(fiber.Map{
		"backends":    h.app.Health(),
		"emotions":    voice.KnownEmotions(),
		"google_pool": pools.GooglePool,
		"eleven_pool": pools.ElevenPool,
	})
}

type analyzeRequest struct {
	Text string `json:"text"`
}

type synthesizeRequest struct {
	Script []script.Segment `json:"script"`
}

func (h *Handler) analyze(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if len(req.Text) < 10 {
		return fiber.NewError(fiber.StatusBadRequest, "text too short")
	}

	segments, err := h.app.AnalyzeWithKey(c.Context(), req.Text, c.Get("X-OpenRouter-API-Key"))
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	narration, dialogue := 0, 0
	characters := make(map[string]bool)
	for _, seg := range segments {
		if seg.Type == script.Dialogue {
			dialogue++
			characters[seg.Character] = true
		} else {
			narration++
		}
	}
	return c.JSON(fiber.Map{
		"script": segments,
		"metadata": fiber.Map{
			"segments_count":  len(segments),
			"narration_count": narration,
			"dialogue_count":  dialogue,
			"characters":      keys(characters),
		},
	})
}

func (h *Handler) synthesize(c *fiber.Ctx) error {
	var req synthesizeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if len(req.Script) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "script is required")
	}
	return h.runSynthesis(c, req.Script)
}

func (h *Handler) generate(c *fiber.Ctx) error {
	var req analyzeRequest
	if err := c.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
	if len(req.Text) < 10 {
		return fiber.NewError(fiber.StatusBadRequest, "text too short")
	}

	segments, err := h.app.AnalyzeWithKey(c.Context(), req.Text, c.Get("X-OpenRouter-API-Key"))
	if err != nil {
		return fiber.NewError(fiber.StatusGatewayTimeout, "analysis failed: "+err.Error())
	}
	return h.runSynthesis(c, segments)
}

// runSynthesis 在临时目录里跑完整合成并把 zip 包发回，响应后清理目录
func (h *Handler) runSynthesis(c *fiber.Ctx, segments []script.Segment) error {
	tier := routing.ParseTier(c.Get("X-User-Tier", string(routing.TierFree)))

	workDir, err := os.MkdirTemp("", "dramaflow_synth_")
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
	defer cleanupDir(workDir)

	pkg, err := h.app.SynthesizeScript(c.Context(), segments, tier, workDir)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	data, err := os.ReadFile(pkg.ZipPath)
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	// 包同时落一份到持久存储，响应头带回取回地址
	if url, err := h.app.Store().Put(data, "application/zip"); err != nil {
		logrus.Warnf("server: failed to persist package: %v", err)
	} else {
		c.Set("X-Package-URL", url)
	}

	c.Set("Content-Type", "application/zip")
	c.Set("Content-Disposition", `attachment; filename="drama_package.zip"`)
	c.Set("X-Segments-Count", strconv.Itoa(len(segments)))
	c.Set("X-Package-Contents", "drama.mp3,drama.srt")
	return c.Send(data)
}

func cleanupDir(dir string) {
	if err := os.RemoveAll(dir); err != nil {
		logrus.Warnf("server: failed to clean up %s: %v", dir, err)
	}
}

func keys(m map[string]bool) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}
