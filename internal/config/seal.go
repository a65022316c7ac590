package config

import (
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// SealFileName is the checksum manifest written next to config.yaml.
const SealFileName = ".seal"

// SealManifest is the on-disk checksum manifest. Hashes are keyed by file
// name relative to the config directory.
type SealManifest struct {
	Version     int               `yaml:"version"`
	GeneratedAt string            `yaml:"generated_at"`
	Hashes      map[string]string `yaml:"hashes"`
}

// HashFile computes the BLAKE3 hash of a file.
func HashFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read file: %w", err)
	}
	sum := blake3.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

// Seal hashes every .yaml file in configDir and writes the manifest.
// Subsequent Load calls verify the sealed files and refuse modified ones.
func Seal(configDir string) (*SealManifest, error) {
	names, err := sealableFiles(configDir)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("no yaml files to seal in %s", configDir)
	}

	manifest := &SealManifest{
		Version:     1,
		GeneratedAt: time.Now().UTC().Format(time.RFC3339),
		Hashes:      make(map[string]string, len(names)),
	}
	for _, name := range names {
		hash, err := HashFile(filepath.Join(configDir, name))
		if err != nil {
			return nil, fmt.Errorf("failed to hash %s: %w", name, err)
		}
		manifest.Hashes[name] = hash
	}

	data, err := yaml.Marshal(manifest)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal seal manifest: %w", err)
	}
	// The manifest holds expected hashes; keep it owner-only.
	if err := os.WriteFile(filepath.Join(configDir, SealFileName), data, 0600); err != nil {
		return nil, fmt.Errorf("failed to write seal manifest: %w", err)
	}
	return manifest, nil
}

// LoadSeal reads the manifest from configDir. Returns os.ErrNotExist when
// the directory is not sealed.
func LoadSeal(configDir string) (*SealManifest, error) {
	data, err := os.ReadFile(filepath.Join(configDir, SealFileName))
	if err != nil {
		return nil, err
	}
	var manifest SealManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse seal manifest: %w", err)
	}
	if manifest.Version != 1 {
		return nil, fmt.Errorf("unsupported seal manifest version: %d", manifest.Version)
	}
	return &manifest, nil
}

// VerifySeal checks configDir against its manifest. An unsealed directory
// passes. A sealed file that was modified, removed, or added fails.
func VerifySeal(configDir string) error {
	manifest, err := LoadSeal(configDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}

	for name, expected := range manifest.Hashes {
		path := filepath.Join(configDir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return fmt.Errorf("sealed file %s is missing; run 'hq config seal' after intentional changes", name)
		}
		actual, err := HashFile(path)
		if err != nil {
			return fmt.Errorf("failed to hash sealed file %s: %w", name, err)
		}
		if actual != expected {
			return fmt.Errorf("seal mismatch for %s: expected %s, got %s; run 'hq config seal' after intentional changes",
				name, expected, actual)
		}
	}

	names, err := sealableFiles(configDir)
	if err != nil {
		return err
	}
	for _, name := range names {
		if _, ok := manifest.Hashes[name]; !ok {
			return fmt.Errorf("file %s is not in the seal manifest; run 'hq config seal'", name)
		}
	}
	return nil
}

func sealableFiles(configDir string) ([]string, error) {
	entries, err := os.ReadDir(configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to read config dir: %w", err)
	}
	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		if ext := filepath.Ext(e.Name()); ext == ".yaml" || ext == ".yml" {
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)
	return names, nil
}
