package guidance

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Asset naming is an on-disk contract: templates and links elsewhere in
// the app build the same names, so the scheme must not change.
//
//	<Name_With_Underscores>_main.png
//	<Name_With_Underscores>_step<N>.png

// AssetPaths holds the web paths of a category's rendered images, derived
// deterministically from the category. Nothing is cached on the Category
// itself.
type AssetPaths struct {
	Main  string
	Steps []string
}

func fileBase(name string) string {
	return strings.ReplaceAll(name, " ", "_")
}

// MainImageFile returns the banner file name for a category.
func MainImageFile(cat Category) string {
	return fileBase(cat.Name) + "_main.png"
}

// StepImageFile returns the file name for a 1-based step number.
func StepImageFile(cat Category, stepNum int) string {
	return fmt.Sprintf("%s_step%d.png", fileBase(cat.Name), stepNum)
}

// Paths derives the web paths for every image of a category, rooted at
// urlPrefix (e.g. "/static/guidance").
func Paths(cat Category, urlPrefix string) AssetPaths {
	p := AssetPaths{Main: urlPrefix + "/" + MainImageFile(cat)}
	for i := range cat.Steps {
		p.Steps = append(p.Steps, urlPrefix+"/"+StepImageFile(cat, i+1))
	}
	return p
}

// URL returns the guidance detail page link for a category name.
func URL(name string) string {
	return "/guidance/" + url.PathEscape(name)
}

// Exists reports whether a category's images were already generated,
// judged by the main image alone. This is an idempotence guard, not a
// cache: there is no invalidation, and images from an older edition of the
// steps text are never regenerated automatically.
func Exists(dir string, cat Category) bool {
	_, err := os.Stat(filepath.Join(dir, MainImageFile(cat)))
	return err == nil
}

// Generator writes missing guidance images to a directory.
type Generator struct {
	dir      string
	renderer *Renderer
	log      *zap.Logger
}

func NewGenerator(dir string, renderer *Renderer, log *zap.Logger) *Generator {
	return &Generator{dir: dir, renderer: renderer, log: log}
}

// EnsureAll walks the catalog sequentially and generates images for every
// category whose main image is missing. Categories are independent, so a
// failure on one is reported but does not stop the pass.
func (g *Generator) EnsureAll(catalog *Catalog) error {
	if err := os.MkdirAll(g.dir, 0o755); err != nil {
		return fmt.Errorf("create guidance dir: %w", err)
	}

	var firstErr error
	for _, name := range catalog.Names() {
		cat, _ := catalog.Get(name)
		if Exists(g.dir, cat) {
			continue
		}
		if err := g.generate(cat); err != nil {
			g.log.Error("guidance image generation failed",
				zap.String("category", cat.Name), zap.Error(err))
			if firstErr == nil {
				firstErr = err
			}
		}
	}
	return firstErr
}

func (g *Generator) generate(cat Category) error {
	main, err := g.renderer.RenderMain(cat)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filepath.Join(g.dir, MainImageFile(cat)), main, 0o644); err != nil {
		return fmt.Errorf("write main image: %w", err)
	}

	for i, step := range cat.Steps {
		color := cat.Palette[i%len(cat.Palette)]
		img, err := g.renderer.RenderStep(cat, i+1, step, color)
		if err != nil {
			return err
		}
		name := StepImageFile(cat, i+1)
		if err := os.WriteFile(filepath.Join(g.dir, name), img, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", name, err)
		}
	}

	g.log.Info("generated guidance images",
		zap.String("category", cat.Name), zap.Int("steps", len(cat.Steps)))
	return nil
}
