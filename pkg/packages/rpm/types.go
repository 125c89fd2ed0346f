package rpm

const (
	compressionXZ   = "xz"
	compressionGzip = "gzip"
	compressionZstd = "zstd"
)

var supportedRPMCompressionTypes = []string{
	compressionXZ,
	compressionGzip,
	compressionZstd,
}

// Header tags queried for the maintenance track file. DISTURL is a
// vendor tag carrying the OBS build origin of the package.
const (
	tagEpoch   = 1003
	tagDistURL = 1123
)
