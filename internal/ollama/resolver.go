package ollama

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	DefaultTag     = "latest"
	MediaTypeModel = "application/vnd.ollama.image.model"
)

type Manifest struct {
	SchemaVersion int     `json:"schemaVersion"`
	Layers        []Layer `json:"layers"`
}

type Layer struct {
	MediaType string `json:"mediaType"`
	Digest    string `json:"digest"`
	Size      int64  `json:"size"`
}

// ModelsDir returns the local ollama model store, honoring OLLAMA_MODELS.
func ModelsDir() (string, error) {
	if env := os.Getenv("OLLAMA_MODELS"); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ollama", "models"), nil
}

// ResolveModelPath finds the GGUF blob for a model name like "smollm2" or
// "smollm2:135m". Names that already point to an existing file are
// returned unchanged, so --model accepts either form.
func ResolveModelPath(modelName string) (string, error) {
	if _, err := os.Stat(modelName); err == nil {
		return modelName, nil
	}

	name, tag := modelName, DefaultTag
	if i := strings.IndexByte(modelName, ':'); i >= 0 {
		name, tag = modelName[:i], modelName[i+1:]
	}

	baseDir, err := ModelsDir()
	if err != nil {
		return "", err
	}

	// Standard install: manifests/registry.ollama.ai/library/<name>/<tag>
	manifestPath := filepath.Join(baseDir, "manifests", "registry.ollama.ai", "library", name, tag)
	data, err := os.ReadFile(manifestPath)
	if err != nil {
		return "", fmt.Errorf("model %q: manifest not found at %s", modelName, manifestPath)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return "", fmt.Errorf("model %q: malformed manifest: %w", modelName, err)
	}

	var blobDigest string
	for _, l := range m.Layers {
		if l.MediaType == MediaTypeModel {
			blobDigest = l.Digest
			break
		}
	}
	if blobDigest == "" {
		return "", fmt.Errorf("model %q: no model layer in manifest", modelName)
	}

	// Digest "sha256:hash" maps to blobs/sha256-hash
	blobPath := filepath.Join(baseDir, "blobs", strings.Replace(blobDigest, ":", "-", 1))
	if _, err := os.Stat(blobPath); err != nil {
		return "", fmt.Errorf("model %q: blob not found at %s", modelName, blobPath)
	}
	return blobPath, nil
}
