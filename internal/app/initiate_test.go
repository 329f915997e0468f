package app

import (
	"fmt"
	"testing"

	"github.com/shandysiswandi/smartotp/internal/pkg/config"
	"github.com/shandysiswandi/smartotp/internal/pkg/vault"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testMasterKey = "AAECAwQFBgcICQoLDA0ODxAREhMUFRYXGBkaGxwdHh8="

func TestNewKeyProvider(t *testing.T) {
	tests := []struct {
		name        string
		version     uint
		wantCurrent uint16
		wantErr     bool
	}{
		{name: "static", version: 0, wantCurrent: 1},
		{name: "hkdf", version: 3, wantCurrent: 3},
		{name: "hkdf max", version: 65535, wantCurrent: 65535},
		{name: "version overflows uint16", version: 65536, wantErr: true},
		{name: "version far above uint16", version: 65537, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := config.NewViperFromBytes("yaml", fmt.Appendf(nil,
				"vault:\n  master_key: %q\n  key_version: %d\n  salt: test\n", testMasterKey, tt.version))
			require.NoError(t, err)

			provider, err := newKeyProvider(cfg)
			if tt.wantErr {
				require.Error(t, err)
				assert.Nil(t, provider)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantCurrent, provider.CurrentVersion())
		})
	}
}

func TestNewKeyProvider_BadMasterKey(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("vault:\n  master_key: short\n"))
	require.NoError(t, err)

	_, err = newKeyProvider(cfg)
	assert.ErrorIs(t, err, vault.ErrInvalidKey)
}
