package config

import "github.com/tansive/restadapter/internal/common/apperrors"

var (
	ErrConfig apperrors.Error = apperrors.New("configuration error")

	ErrReadConfig         = ErrConfig.New("unable to read config file")
	ErrUnsupportedFormat  = ErrConfig.New("unsupported config file format")
	ErrMissingEnv         = ErrConfig.New("missing environment variable")
	ErrTemplate           = ErrConfig.New("unable to expand config template")
	ErrParseConfig        = ErrConfig.New("unable to parse config file")
	ErrDecodeConfig       = ErrConfig.New("unable to decode config file")
	ErrUnsupportedVersion = ErrConfig.New("unsupported config file version")
	ErrNoConnections      = ErrConfig.New("no connections configured")
	ErrUnknownConnection  = ErrConfig.New("connection not found in config")
)
