package expandenv_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	. "trpc.group/trpc-go/linkstack/internal/expandenv"
)

func TestExpandEnv(t *testing.T) {
	key := "env_key"
	t.Run("no env", func(t *testing.T) {
		require.Equal(t, []byte("abc"), ExpandEnv([]byte("abc")))
	})
	t.Run("${..} is expanded", func(t *testing.T) {
		t.Setenv(key, t.Name())
		require.Equal(t, fmt.Sprintf("head_%s_tail", t.Name()),
			string(ExpandEnv([]byte(fmt.Sprintf("head_${%s}_tail", key)))))
	})
	t.Run("$.. is not expanded", func(t *testing.T) {
		t.Setenv(key, t.Name())
		require.Equal(t, "head_$env_key_tail", string(ExpandEnv([]byte("head_$env_key_tail"))))
	})
	t.Run("${ is not expanded", func(t *testing.T) {
		require.Equal(t, "head_${_tail", string(ExpandEnv([]byte("head_${_tail"))))
	})
	t.Run("${} is expanded as empty", func(t *testing.T) {
		require.Equal(t, "head__tail", string(ExpandEnv([]byte("head_${}_tail"))))
	})
	t.Run("${..} is not expanded if .. contains any space", func(t *testing.T) {
		require.Equal(t, "head_${key key}_tail", string(ExpandEnv([]byte("head_${key key}_tail"))))
	})
	t.Run("default is used when unset", func(t *testing.T) {
		require.Equal(t, "workers: 8", string(ExpandEnv([]byte("workers: ${STACKBENCH_UNSET_KEY:-8}"))))
	})
	t.Run("default is ignored when set", func(t *testing.T) {
		t.Setenv(key, "3")
		require.Equal(t, "workers: 3", string(ExpandEnv([]byte("workers: ${env_key:-8}"))))
	})
	t.Run("unset without default is empty", func(t *testing.T) {
		require.Equal(t, "a==b", string(ExpandEnv([]byte("a=${STACKBENCH_UNSET_KEY}=b"))))
	})
}
