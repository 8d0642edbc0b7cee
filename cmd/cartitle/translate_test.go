package main

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTranslateCommand_Offline(t *testing.T) {
	tests := []struct {
		name  string
		stdin string
		args  []string
		want  string
	}{
		{
			name: "titles as arguments",
			args: []string{"translate", "--offline", "宝马 3系 2020款 325Li M运动套装", "吉利银河 L7 2023款 插电混动"},
			want: "BMW 3Series 2020 325Li MSport Package\nGeely Galaxy L7 2023 PHEV\n",
		},
		{
			name:  "titles on stdin",
			stdin: "宝马 3系 2020款 325Li M运动套装\n\n  吉利银河 L7 2023款 插电混动  \n",
			args:  []string{"translate", "--offline"},
			want:  "BMW 3Series 2020 325Li MSport Package\nGeely Galaxy L7 2023 PHEV\n",
		},
		{
			name: "verbose",
			args: []string{"translate", "--offline", "--verbose", "丰田 凯美瑞 2022款"},
			want: "丰田 凯美瑞 2022款\n  -> Toyota 凯美瑞 2022 [degraded: disabled]\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := executeCommand(t, tt.stdin, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestReadLines(t *testing.T) {
	got, err := readLines(strings.NewReader("a\n\n  b \r\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, got)
}
