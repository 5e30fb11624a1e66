package projenrc

import (
	"github.com/projen/projen-go/projen"
	"github.com/projen/projen-go/projen/github"
	"github.com/projen/projen-go/projen/github/workflows"
	"github.com/projen/projen-go/projen/release"
)

func Workflows_SetupNode() *workflows.JobStep {
	return &workflows.JobStep{
		Uses: StrPtr("actions/setup-node@v4"),
		With: &map[string]any{
			"node-version": "20.x",
		},
	}
}

func Workflows_SetupGo() *workflows.JobStep {
	return &workflows.JobStep{
		Uses: StrPtr("actions/setup-go@v5"),
		With: &map[string]any{
			"cache-dependency-path": "go.sum",
			"go-version-file":       "go.mod",
		},
	}
}

// NewTestWorkflow adds a workflow running the Go tests on every pull
// request and push to main.
func NewTestWorkflow(gh github.GitHub) github.GithubWorkflow {
	wf := gh.AddWorkflow(StrPtr("test"))
	wf.On(&workflows.Triggers{
		PullRequest: &workflows.PullRequestOptions{},
		Push: &workflows.PushOptions{
			Branches: &[]*string{StrPtr("main")},
		},
	})
	wf.AddJobs(&map[string]any{
		"test": &workflows.Job{
			RunsOn: &[]*string{StrPtr("${{ matrix.os }}")},
			Permissions: &workflows.JobPermissions{
				Contents: workflows.JobPermission_READ,
			},
			Strategy: &workflows.JobStrategy{
				Matrix: &workflows.JobMatrix{
					Domain: &map[string]any{
						"os": []string{"ubuntu-latest", "macos-latest"},
					},
				},
			},
			Steps: &[]*workflows.JobStep{
				github.WorkflowSteps_Checkout(&github.CheckoutOptions{}),
				Workflows_SetupGo(),
				{
					Name: StrPtr("Test"),
					Run:  StrPtr("go test -race ./..."),
				},
				{
					Name: StrPtr("Build"),
					Run:  StrPtr("go build -o bin/bslsp ./cmd/bslsp"),
				},
			},
		},
	})
	return wf
}

// releaseTargets are the platforms a release ships. bslsp has no cgo
// dependencies, so every target cross-compiles from one Linux runner.
var releaseTargets = []*map[string]any{
	{"goos": "linux", "goarch": "amd64", "vsce": "linux-x64"},
	{"goos": "linux", "goarch": "arm64", "vsce": "linux-arm64"},
	{"goos": "darwin", "goarch": "amd64", "vsce": "darwin-x64"},
	{"goos": "darwin", "goarch": "arm64", "vsce": "darwin-arm64"},
	{"goos": "windows", "goarch": "amd64", "vsce": "win32-x64"},
}

// NewGitHubReleaseWorkflow releases from main: it versions the VS Code
// package, then builds bslsp and a platform-specific extension for every
// release target and uploads both to the GitHub release.
func NewGitHubReleaseWorkflow(
	project projen.Project,
	gh github.GitHub,
	packageVsceTask projen.Task,
	packageGoTask projen.Task,
) release.Release {
	ghRelease := release.NewRelease(gh, &release.ReleaseOptions{
		PostBuildSteps: &[]*workflows.JobStep{
			{
				Name: StrPtr("Get Version"),
				Id:   StrPtr("get_version"),
				Run:  StrPtr("echo \"version=$(cat dist/releasetag.txt)\" >> $GITHUB_OUTPUT"),
			},
		},
		ReleaseWorkflowSetupSteps: &[]*workflows.JobStep{
			Workflows_SetupGo(),
		},
		ArtifactsDirectory: StrPtr("dist"),
		Branch:             StrPtr("main"),
		Task:               project.PackageTask(),
		VersionFile:        StrPtr("editors/vscode/package.json"),
	})
	project.TryFindObjectFile(StrPtr(".github/workflows/release.yml")).
		AddOverride(StrPtr("jobs.release.outputs.version"), "${{ steps.get_version.outputs.version }}")

	ifCond := "needs.release.outputs.tag_exists != 'true' && needs.release.outputs.latest_commit == github.sha"
	permissions := &workflows.JobPermissions{
		Contents: workflows.JobPermission_WRITE,
	}
	ghRelease.AddJobs(&map[string]*workflows.Job{
		"package":        PackageJob(gh, packageGoTask, packageVsceTask, ifCond, permissions),
		"update-release": UpdateReleaseJob(ifCond, permissions),
	})
	return ghRelease
}

// PackageJob builds the bslsp archive and the extension for each release
// target and uploads them as one artifact per target.
func PackageJob(
	gh github.GitHub,
	packageGoTask projen.Task,
	packageVsceTask projen.Task,
	ifCond string,
	permissions *workflows.JobPermissions,
) *workflows.Job {
	targetEnv := &map[string]*string{
		"GOOS":        StrPtr("${{ matrix.goos }}"),
		"GOARCH":      StrPtr("${{ matrix.goarch }}"),
		"VSCE_TARGET": StrPtr("${{ matrix.vsce }}"),
		"CGO_ENABLED": StrPtr("0"),
	}
	return &workflows.Job{
		If:          &ifCond,
		Needs:       &[]*string{StrPtr("release"), StrPtr("release_github")},
		Permissions: permissions,
		Env: &map[string]*string{
			"VERSION": StrPtr("${{ needs.release.outputs.version }}"),
		},
		RunsOn: &[]*string{StrPtr("ubuntu-latest")},
		Strategy: &workflows.JobStrategy{
			Matrix: &workflows.JobMatrix{
				Include: &releaseTargets,
			},
		},
		Steps: &[]*workflows.JobStep{
			github.WorkflowSteps_Checkout(&github.CheckoutOptions{}),
			Workflows_SetupGo(),
			Workflows_SetupNode(),
			{
				Name: StrPtr("Install Deps"),
				Run:  StrPtr("cd editors/vscode && yarn install --check-files --frozen-lockfile"),
			},
			{
				Name: StrPtr("Package bslsp"),
				Run:  gh.Project().RunTaskCommand(packageGoTask),
				Env:  targetEnv,
			},
			{
				Name: StrPtr("Package extension"),
				Run:  gh.Project().RunTaskCommand(packageVsceTask),
				Env:  targetEnv,
			},
			github.WorkflowSteps_UploadArtifact(&github.UploadArtifactOptions{
				With: &github.UploadArtifactWith{
					Name: StrPtr("bslsp-${{ matrix.goos }}-${{ matrix.goarch }}"),
					Path: StrPtr("dist/*"),
				},
			}),
		},
	}
}

// UpdateReleaseJob attaches every packaged artifact to the release.
func UpdateReleaseJob(ifCond string, permissions *workflows.JobPermissions) *workflows.Job {
	return &workflows.Job{
		Permissions: permissions,
		If:          &ifCond,
		Needs:       &[]*string{StrPtr("package"), StrPtr("release")},
		RunsOn:      &[]*string{StrPtr("ubuntu-latest")},
		Env: &map[string]*string{
			"VERSION":  StrPtr("${{ needs.release.outputs.version }}"),
			"GH_TOKEN": StrPtr("${{ github.token }}"),
		},
		Steps: &[]*workflows.JobStep{
			github.WorkflowSteps_Checkout(&github.CheckoutOptions{}),
			github.WorkflowSteps_DownloadArtifact(&github.DownloadArtifactOptions{
				With: &github.DownloadArtifactWith{
					MergeMultiple: BoolPtr(true),
					Path:          StrPtr("dist"),
					Pattern:       StrPtr("bslsp-*"),
				},
			}),
			{
				Name: StrPtr("Upload Release"),
				Run:  StrPtr("gh release upload \"$VERSION\" dist/*.tar.gz dist/*.vsix"),
			},
		},
	}
}
