package choropleth

import "github.com/rotisserie/eris"

// ErrSetupConfiguration is the sentinel wrapped by every configuration error
// raised while building a classification. Check with eris.Is.
var ErrSetupConfiguration = eris.New("choropleth: setup configuration")

func setupErrorf(format string, args ...any) error {
	return eris.Wrapf(ErrSetupConfiguration, format, args...)
}
