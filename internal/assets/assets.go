// Package assets places the browser-side rendering files runtime mode needs:
// the mermaid script fetched from a CDN and the init script that starts it on
// page load. Both land in the book's theme directory; files already present
// are never overwritten, so a book can pin its own script version.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"mdbook-diagrams/internal/fileutil"
	"mdbook-diagrams/internal/hints"
)

// DefaultScriptURL is where the mermaid script comes from when the theme
// directory does not already carry one.
const DefaultScriptURL = "https://cdn.jsdelivr.net/npm/mermaid@11/dist/mermaid.min.js"

// downloadTimeout bounds the CDN fetch; the script is a few megabytes.
const downloadTimeout = 60 * time.Second

const (
	themeDir   = "theme"
	scriptName = "mermaid.min.js"
	initName   = "mermaid-init.js"
)

// initScript imports the downloaded module and renders every diagram element
// once the page loads.
const initScript = `import mermaid from './mermaid.min.js';
mermaid.initialize({ startOnLoad: true });
`

// AdditionalJS lists the additional-js entries a book.toml needs for runtime
// rendering, relative to the book root.
var AdditionalJS = []string{themeDir + "/" + scriptName, themeDir + "/" + initName}

// ErrDownload indicates the mermaid script could not be fetched.
var ErrDownload = errors.New("mermaid script download failed")

// Bootstrap places runtime-mode assets into a book's theme directory.
type Bootstrap struct {
	// Client performs the script download.
	Client *http.Client
	// ScriptURL overrides DefaultScriptURL; tests point it at a local server.
	ScriptURL string
}

// NewBootstrap returns a Bootstrap fetching from the default CDN.
func NewBootstrap() *Bootstrap {
	return &Bootstrap{
		Client:    &http.Client{Timeout: downloadTimeout},
		ScriptURL: DefaultScriptURL,
	}
}

// Ensure creates root/theme and places the mermaid script and init script in
// it, downloading the former when missing. Existing files are left untouched.
// When anything was written, the book.toml wiring the author still has to add
// is logged, since this program cannot edit the book's output configuration
// mid-build.
func (b *Bootstrap) Ensure(ctx context.Context, root string, logger *log.Logger) error {
	dir := filepath.Join(root, themeDir)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("creating theme directory: %w", err)
	}

	scriptPath := filepath.Join(dir, scriptName)
	initPath := filepath.Join(dir, initName)

	updated := false
	if !fileutil.FileExists(scriptPath) {
		logger.Info("downloading mermaid script", "url", b.ScriptURL)
		if err := b.download(ctx, scriptPath); err != nil {
			return err
		}
		logger.Info("placed mermaid script", "path", themeDir+"/"+scriptName)
		updated = true
	}
	if !fileutil.FileExists(initPath) {
		if err := os.WriteFile(initPath, []byte(initScript), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", initName, err)
		}
		logger.Info("created init script", "path", themeDir+"/"+initName)
		updated = true
	}

	if updated {
		logger.Info("add the scripts to book.toml to enable runtime rendering:\n" +
			"[output.html]\n" +
			fmt.Sprintf("additional-js = [%q, %q]", AdditionalJS[0], AdditionalJS[1]))
	}
	return nil
}

// download fetches the script into dest. The body is staged next to dest and
// renamed into place, so an interrupted download never leaves a truncated
// script that the next run would accept as present.
func (b *Bootstrap) download(ctx context.Context, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, b.ScriptURL, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}

	resp, err := b.Client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v%s", ErrDownload, err, hints.ForScriptDownload())
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("%w: %s returned status %d%s",
			ErrDownload, b.ScriptURL, resp.StatusCode, hints.ForScriptDownload())
	}

	staged := dest + ".partial"
	f, err := os.Create(staged) // #nosec G304 -- dest is root/theme/mermaid.min.js
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}
	_, copyErr := io.Copy(f, resp.Body)
	closeErr := f.Close()
	if copyErr != nil || closeErr != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("%w: %v", ErrDownload, errors.Join(copyErr, closeErr))
	}
	if err := os.Rename(staged, dest); err != nil {
		_ = os.Remove(staged)
		return fmt.Errorf("%w: %v", ErrDownload, err)
	}
	return nil
}
