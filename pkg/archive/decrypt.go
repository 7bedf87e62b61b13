// Copyright (c) 2026 The gosas authors. All rights reserved.
// SPDX-License-Identifier: MIT

package archive

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// gpgRunner decrypts in to out using key. Swappable for tests.
type gpgRunner func(ctx context.Context, key, in, out string) error

// runGPG shells out to gpg, feeding the key on stdin so it never
// appears on a command line.
func runGPG(ctx context.Context, key, in, out string) error {
	cmd := exec.CommandContext(ctx, "gpg", "--batch",
		"-o", out, "--passphrase-fd", "0", "-d", in)
	cmd.Stdin = strings.NewReader(key + "\n")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("gpg: %w", err)
	}
	return nil
}

// resolveKey turns the user-supplied key option into the actual key.
// The option may be the key itself, a path to a file holding only the
// key, or empty, in which case a key file is searched in dataDir:
// first *<obsid>*, then *key*. Multiple candidates are an error.
func resolveKey(option, dataDir, obsID string) (string, error) {
	if option != "" {
		if _, err := os.Stat(option); err != nil {
			// Not a file: treat as the literal key.
			return option, nil
		}
		return readKeyFile(option)
	}

	candidates, err := filepath.Glob(filepath.Join(dataDir, "*"+obsID+"*"))
	if err != nil {
		return "", fmt.Errorf("searching for key file: %w", err)
	}
	candidates = filterKeyFiles(candidates, filepath.Join(dataDir, obsID))
	if len(candidates) == 0 {
		candidates, err = filepath.Glob(filepath.Join(dataDir, "*key*"))
		if err != nil {
			return "", fmt.Errorf("searching for key file: %w", err)
		}
		candidates = filterKeyFiles(candidates, "")
	}
	if len(candidates) > 1 {
		return "", fmt.Errorf("multiple possible encryption key files in %s: %s",
			dataDir, strings.Join(candidates, ", "))
	}
	if len(candidates) == 0 {
		return "", fmt.Errorf("no encryption key found: place a key file in %s", dataDir)
	}
	return readKeyFile(candidates[0])
}

// filterKeyFiles drops directories (notably the observation directory
// itself, which matches the *<obsid>* glob).
func filterKeyFiles(paths []string, exclude string) []string {
	var files []string
	for _, p := range paths {
		if p == exclude {
			continue
		}
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			files = append(files, p)
		}
	}
	return files
}

func readKeyFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("reading key file %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	if !scanner.Scan() {
		return "", fmt.Errorf("key file %s is empty", path)
	}
	key := strings.TrimSpace(scanner.Text())
	if key == "" {
		return "", fmt.Errorf("key file %s is empty", path)
	}
	return key, nil
}

// decryptAll decrypts every .gpg file under obsDir, removing the
// container after a successful decryption. Outputs already present are
// left alone. No encrypted files is not an error.
func (c *Client) decryptAll(ctx context.Context, lay Layout, keyOption string) error {
	encrypted, err := findFiles(lay.ObsDir(), ".gpg")
	if err != nil {
		return err
	}
	if len(encrypted) == 0 {
		c.log.Debug("no encrypted files found", zap.String("obsid", lay.ObsID))
		return nil
	}
	c.log.Info("encrypted files found, decrypting",
		zap.Int("count", len(encrypted)), zap.String("obsid", lay.ObsID))

	key, err := resolveKey(keyOption, lay.DataDir, lay.ObsID)
	if err != nil {
		return err
	}

	for _, file := range encrypted {
		out := strings.TrimSuffix(file, ".gpg")
		if _, err := os.Stat(out); err == nil {
			c.log.Info("already decrypted file found", zap.String("file", out))
			continue
		}
		c.log.Debug("decrypting", zap.String("file", file))
		if err := c.gpg(ctx, key, file, out); err != nil {
			return fmt.Errorf("decrypting %s: %w", file, err)
		}
		if err := os.Remove(file); err != nil {
			return fmt.Errorf("removing %s: %w", file, err)
		}
	}
	return nil
}
