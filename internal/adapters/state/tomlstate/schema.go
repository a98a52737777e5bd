package tomlstate

import "github.com/ridebird/ride-cli/internal/ports"

const currentVersion = 1

type fileSchema struct {
	Version int        `toml:"version"`
	Auth    authSchema `toml:"auth"`
	UI      uiSchema   `toml:"ui"`
}

type authSchema struct {
	AccessToken  string `toml:"access_token"`
	RefreshToken string `toml:"refresh_token"`
	UserJSON     string `toml:"user_json"`
}

type uiSchema struct {
	Language               string `toml:"language"`
	DeletedAccountRedirect bool   `toml:"deleted_account_redirect"`
	EmbeddedShell          bool   `toml:"embedded_shell"`
}

func (f *fileSchema) applyDefaults() {
	if f.Version == 0 {
		f.Version = currentVersion
	}
}

func toSchema(state ports.ClientState) fileSchema {
	return fileSchema{
		Version: currentVersion,
		Auth: authSchema{
			AccessToken:  state.AccessToken,
			RefreshToken: state.RefreshToken,
			UserJSON:     state.UserJSON,
		},
		UI: uiSchema{
			Language:               state.Language,
			DeletedAccountRedirect: state.DeletedAccountRedirect,
			EmbeddedShell:          state.EmbeddedShell,
		},
	}
}

func fromSchema(file fileSchema) ports.ClientState {
	return ports.ClientState{
		AccessToken:            file.Auth.AccessToken,
		RefreshToken:           file.Auth.RefreshToken,
		UserJSON:               file.Auth.UserJSON,
		Language:               file.UI.Language,
		DeletedAccountRedirect: file.UI.DeletedAccountRedirect,
		EmbeddedShell:          file.UI.EmbeddedShell,
	}
}
