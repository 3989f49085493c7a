package profile

// Built-in quality palettes, highest tier first. These back quality
// pickers and listings; the builder itself accepts any name since the
// target applications allow custom quality definitions.

var radarrQualities = []string{
	"Bluray-2160p", "Remux-2160p", "WEB-2160p", "WEBDL-2160p",
	"Bluray-1080p", "Remux-1080p", "WEB-1080p", "WEBDL-1080p",
	"HDTV-1080p", "Bluray-720p", "WEB-720p", "HDTV-720p",
	"DVD", "SDTV", "CAM", "TS",
}

var sonarrQualities = []string{
	"Bluray-2160p", "Remux-2160p", "WEB-2160p", "WEBDL-2160p",
	"Bluray-1080p", "Remux-1080p", "WEB-1080p", "WEBDL-1080p",
	"HDTV-1080p", "Bluray-720p", "WEB-720p", "HDTV-720p",
	"DVD", "SDTV",
}

// Qualities returns the known quality labels for an app.
func Qualities(app string) []string {
	var src []string
	switch app {
	case "sonarr":
		src = sonarrQualities
	default:
		src = radarrQualities
	}
	out := make([]string, len(src))
	copy(out, src)
	return out
}
