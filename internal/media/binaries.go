package media

import (
	"fmt"
	"os"
	"os/exec"
)

const (
	EnvFFmpegPath  = "SUBTITLES_FFMPEG_PATH"
	EnvFFprobePath = "SUBTITLES_FFPROBE_PATH"
)

type BinaryPaths struct {
	FFmpeg  string
	FFprobe string
}

// Locate resolves both binaries. Each one is taken from the configured
// value, then the environment, then PATH. A configured or environment value
// that does not point at an executable is an error rather than a silent
// fallback.
func Locate(configured BinaryPaths) (BinaryPaths, error) {
	ffmpegPath, err := locate("ffmpeg", configured.FFmpeg, EnvFFmpegPath)
	if err != nil {
		return BinaryPaths{}, err
	}
	ffprobePath, err := locate("ffprobe", configured.FFprobe, EnvFFprobePath)
	if err != nil {
		return BinaryPaths{}, err
	}
	return BinaryPaths{FFmpeg: ffmpegPath, FFprobe: ffprobePath}, nil
}

func locate(name, configured, envVar string) (string, error) {
	for _, candidate := range []string{configured, os.Getenv(envVar)} {
		if candidate == "" {
			continue
		}
		found, err := exec.LookPath(candidate)
		if err != nil {
			return "", fmt.Errorf("%s not usable at %s: %w", name, candidate, err)
		}
		return found, nil
	}

	if found, err := exec.LookPath(name); err == nil {
		return found, nil
	}
	return "", fmt.Errorf("%s not found in PATH: install it or set %s", name, envVar)
}
