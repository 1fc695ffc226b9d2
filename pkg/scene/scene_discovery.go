package scene

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// ErrUnknownScene is returned when a scene ID matches no built-in scene or file
var ErrUnknownScene = errors.New("unknown scene")

const (
	builtInGroup = "Built-in Scenes"
	fileGroup    = "Scene Files"
	filePrefix   = "file:"
)

// SceneInfo represents a discovered scene with its metadata
type SceneInfo struct {
	ID          string `json:"id"`          // Unique identifier
	Name        string `json:"name"`        // Scene name
	DisplayName string `json:"displayName"` // UI display name
	Description string `json:"description"` // Optional description
	Group       string `json:"group"`       // Grouping category
	Type        string `json:"type"`        // "builtin" or "file"
	FilePath    string `json:"filePath"`    // Path to the JSON file (file type only)
}

// SceneGroup represents a group of related scenes
type SceneGroup struct {
	Name   string      `json:"name"`
	Scenes []SceneInfo `json:"scenes"`
}

// ScenesResponse represents the complete response for /api/scenes
type ScenesResponse struct {
	Groups []SceneGroup `json:"groups"`
}

// Options controls how a scene is created by ID
type Options struct {
	ScenesDir string // Directory searched for file: scenes
	Seed      int64  // Layout seed for procedurally generated scenes
}

type builtInScene struct {
	info SceneInfo
	new  func(opts Options) *Scene
}

var builtInScenes = []builtInScene{
	{
		info: SceneInfo{ID: "default", Name: "Default Scene", Description: "Diffuse, metal and hollow glass spheres on a large ground sphere"},
		new:  func(Options) *Scene { return NewDefaultScene() },
	},
	{
		info: SceneInfo{ID: "depth-of-field", Name: "Depth of Field", Description: "Default spheres through a wide aperture lens"},
		new:  func(Options) *Scene { return NewDepthOfFieldScene() },
	},
	{
		info: SceneInfo{ID: "random", Name: "Random Spheres", Description: "Hundreds of small random spheres around three large ones"},
		new: func(opts Options) *Scene {
			seed := opts.Seed
			if seed == 0 {
				seed = DefaultSamplingConfig().Seed
			}
			return NewRandomScene(seed)
		},
	},
	{
		info: SceneInfo{ID: "sphere-grid", Name: "Sphere Grid", Description: "10x10 grid of rainbow-colored metallic spheres"},
		new:  func(Options) *Scene { return NewSphereGridScene() },
	},
}

// BuiltInSceneIDs returns the IDs of the built-in scenes in display order
func BuiltInSceneIDs() []string {
	ids := make([]string, 0, len(builtInScenes))
	for _, b := range builtInScenes {
		ids = append(ids, b.info.ID)
	}
	return ids
}

// NewSceneByID creates a built-in scene, or loads "file:<name>" from the
// scenes directory.
func NewSceneByID(id string, opts Options) (*Scene, error) {
	if strings.HasPrefix(id, filePrefix) {
		name := strings.TrimPrefix(id, filePrefix)
		if name == "" || strings.ContainsAny(name, `/\`) || strings.Contains(name, "..") {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
		}
		path := filepath.Join(scenesDirOrDefault(opts.ScenesDir), name+".json")
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
		}
		return LoadSceneFile(path)
	}

	for _, b := range builtInScenes {
		if b.info.ID == id {
			return b.new(opts), nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScene, id)
}

// ListFileScenes scans the scenes directory and returns discovered JSON scenes
func ListFileScenes(scenesDir string) ([]SceneInfo, error) {
	scenesDir = scenesDirOrDefault(scenesDir)
	if _, err := os.Stat(scenesDir); err != nil {
		// No scenes directory found, return empty list
		return []SceneInfo{}, nil
	}

	files, err := filepath.Glob(filepath.Join(scenesDir, "*.json"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan scenes directory: %w", err)
	}

	var scenes []SceneInfo
	for _, filePath := range files {
		sceneInfo, err := ParseSceneMetadata(filePath)
		if err != nil {
			// Skip unreadable files but keep the rest
			fmt.Printf("Warning: failed to parse metadata for %s: %v\n", filePath, err)
			continue
		}
		scenes = append(scenes, sceneInfo)
	}

	sort.Slice(scenes, func(i, j int) bool {
		return scenes[i].DisplayName < scenes[j].DisplayName
	})

	return scenes, nil
}

// ParseSceneMetadata extracts the name, description and group of a JSON scene file
func ParseSceneMetadata(filePath string) (SceneInfo, error) {
	filename := filepath.Base(filePath)
	nameWithoutExt := strings.TrimSuffix(filename, filepath.Ext(filename))

	sceneInfo := SceneInfo{
		ID:          filePrefix + nameWithoutExt,
		Name:        titleCase(nameWithoutExt),
		DisplayName: titleCase(nameWithoutExt),
		Group:       fileGroup,
		Type:        "file",
		FilePath:    filePath,
	}

	file, err := os.Open(filePath)
	if err != nil {
		return sceneInfo, err
	}
	defer file.Close()

	cfg, err := ParseSceneConfig(file)
	if err != nil {
		return sceneInfo, err
	}

	if cfg.Name != "" {
		sceneInfo.Name = cfg.Name
		sceneInfo.DisplayName = cfg.Name
	}
	if cfg.Group != "" {
		sceneInfo.Group = cfg.Group
	}
	sceneInfo.Description = cfg.Description

	return sceneInfo, nil
}

// ListAllScenes returns both built-in and file scenes, grouped by category
func ListAllScenes(scenesDir string) (ScenesResponse, error) {
	var response ScenesResponse

	allScenes := make([]SceneInfo, 0, len(builtInScenes))
	for _, b := range builtInScenes {
		info := b.info
		info.DisplayName = info.Name
		info.Group = builtInGroup
		info.Type = "builtin"
		allScenes = append(allScenes, info)
	}

	fileScenes, err := ListFileScenes(scenesDir)
	if err != nil {
		return response, fmt.Errorf("failed to list scene files: %w", err)
	}
	allScenes = append(allScenes, fileScenes...)

	groupMap := make(map[string][]SceneInfo)
	for _, scene := range allScenes {
		groupMap[scene.Group] = append(groupMap[scene.Group], scene)
	}

	// Built-in first, then alphabetical
	var groupNames []string
	for groupName := range groupMap {
		if groupName != builtInGroup {
			groupNames = append(groupNames, groupName)
		}
	}
	sort.Strings(groupNames)

	if group, exists := groupMap[builtInGroup]; exists {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   builtInGroup,
			Scenes: group,
		})
	}

	for _, groupName := range groupNames {
		response.Groups = append(response.Groups, SceneGroup{
			Name:   groupName,
			Scenes: groupMap[groupName],
		})
	}

	return response, nil
}

func scenesDirOrDefault(dir string) string {
	if dir == "" {
		return "scenes"
	}
	return dir
}

// titleCase converts a filename-style string to title case
// e.g., "cornell-empty" -> "Cornell Empty"
func titleCase(s string) string {
	s = strings.ReplaceAll(s, "-", " ")
	s = strings.ReplaceAll(s, "_", " ")

	words := strings.Fields(s)
	for i, word := range words {
		if len(word) > 0 {
			words[i] = strings.ToUpper(word[:1]) + strings.ToLower(word[1:])
		}
	}

	return strings.Join(words, " ")
}
