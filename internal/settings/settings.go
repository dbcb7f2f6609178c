// Package settings stores the user preferences of the engine in a TOML file
package settings

import (
	"bytes"
	"os"
	"time"

	"gem.dev/launcher/internal/errors"
	"gem.dev/launcher/internal/utils"
	"github.com/BurntSushi/toml"
	"github.com/sirupsen/logrus"
)

const (
	DefaultScanChunkSize    = 20
	DefaultArtifactCacheTTL = 300
)

type Preferences struct {
	// Launch games in fullscreen unless asked otherwise
	Fullscreen bool `toml:"fullscreen"`
	// Files enumerated between two yields of the library loader
	ScanChunkSize int `toml:"scan_chunk_size"`
	// Seconds a screenshots or savestates listing stays cached
	ArtifactCacheTTL int `toml:"artifact_cache_ttl"`
}

func Defaults() Preferences {
	return Preferences{
		ScanChunkSize:    DefaultScanChunkSize,
		ArtifactCacheTTL: DefaultArtifactCacheTTL,
	}
}

// ArtifactCacheDuration returns the artifact cache TTL as a duration
func (p Preferences) ArtifactCacheDuration() time.Duration {
	return time.Duration(p.ArtifactCacheTTL) * time.Second
}

// Load reads the preferences at path. Missing keys take their default value
// and the file is written back so that it lists every key.
func Load(path string, log logrus.FieldLogger) (preferences Preferences, err error) {
	preferences = Defaults()
	if log == nil {
		log = logrus.StandardLogger()
	}
	if _, err = os.Stat(path); err == nil {
		var metadata toml.MetaData
		if metadata, err = toml.DecodeFile(path, &preferences); err != nil {
			return Defaults(), errors.Wrap(errors.KindConfigInvalid, "load preferences", path, err)
		}
		for _, key := range metadata.Undecoded() {
			log.Warnf("Unknown preference %s in %s", key.String(), path)
		}
	} else if !os.IsNotExist(err) {
		return Defaults(), errors.Wrap(errors.KindConfigInvalid, "load preferences", path, err)
	}
	if preferences.ScanChunkSize <= 0 {
		preferences.ScanChunkSize = DefaultScanChunkSize
	}
	if preferences.ArtifactCacheTTL < 0 {
		preferences.ArtifactCacheTTL = DefaultArtifactCacheTTL
	}
	err = Save(path, preferences)
	return
}

// Save writes preferences to path
func Save(path string, preferences Preferences) error {
	var buffer bytes.Buffer
	if err := toml.NewEncoder(&buffer).Encode(preferences); err != nil {
		return errors.Wrap(errors.KindConfigInvalid, "save preferences", path, err)
	}
	return errors.Wrap(errors.KindConfigInvalid, "save preferences", path,
		utils.WriteFileAtomic(path, buffer.Bytes(), 0644))
}
