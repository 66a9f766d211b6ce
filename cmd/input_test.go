package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadItem_JSON(t *testing.T) {
	path := writeTempFile(t, "item.json", `{
		"title": "Decline and Fall",
		"author": "Edward Gibbon",
		"volume_count": 6,
		"asking_price": 4500,
		"currency": "GBP"
	}`)

	item, err := readItem(path)
	require.NoError(t, err)
	assert.Equal(t, "Edward Gibbon", item.Author)
	assert.Equal(t, 6, item.VolumeCount)
	assert.Equal(t, 4500.0, item.AskingPrice)
}

func TestReadItem_YAML(t *testing.T) {
	path := writeTempFile(t, "item.yaml", `
title: Decline and Fall
author: Edward Gibbon
binder: Riviere
binder_tier: 1
asking_price: 4500
`)

	item, err := readItem(path)
	require.NoError(t, err)
	assert.Equal(t, "Riviere", item.Binder)
	assert.Equal(t, 1, item.BinderTier)
}

func TestReadItem_Missing(t *testing.T) {
	_, err := readItem(filepath.Join(t.TempDir(), "nope.json"))
	assert.Error(t, err)
}

func TestReadCollection_EmptyPath(t *testing.T) {
	coll, err := readCollection("")
	require.NoError(t, err)
	assert.Empty(t, coll.Holdings)
}

func TestReadCollection_YAML(t *testing.T) {
	path := writeTempFile(t, "collection.yml", `
holdings:
  - title: Memoirs of My Life
    author: Edward Gibbon
    volumes_held: 1
    volumes_expected: 1
publisher_targets:
  Edward Gibbon: Strahan & Cadell
target_eras:
  - 18th century
goals:
  - name: fine bindings
    keywords: [morocco, vellum]
`)

	coll, err := readCollection(path)
	require.NoError(t, err)
	require.Len(t, coll.Holdings, 1)
	assert.Equal(t, "Strahan & Cadell", coll.PublisherTargets["Edward Gibbon"])
	assert.Equal(t, []string{"18th century"}, coll.TargetEras)
	require.Len(t, coll.Goals, 1)
	assert.Equal(t, []string{"morocco", "vellum"}, coll.Goals[0].Keywords)
}

func TestWriteOutput_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.json")
	require.NoError(t, writeOutput(map[string]int{"n": 1}, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var got map[string]int
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, 1, got["n"])
}

func TestIsYAML(t *testing.T) {
	assert.True(t, isYAML("a.yaml"))
	assert.True(t, isYAML("A.YML"))
	assert.False(t, isYAML("a.json"))
}
