package main

import (
	"github.com/0x15BA88FF/brain-surgeon/projenrc"
	"github.com/projen/projen-go/projen"
	"github.com/projen/projen-go/projen/github"
)

func main() {
	project := github.NewGitHubProject(&github.GitHubProjectOptions{
		Name: projenrc.StrPtr("brain-surgeon"),
		GitIgnoreOptions: &projen.IgnoreFileOptions{
			IgnorePatterns: &[]*string{projenrc.StrPtr("bin"), projenrc.StrPtr("dist")},
		},
	})
	project.DefaultTask().Exec(projenrc.StrPtr("go run projenrc.go"), &projen.TaskStepOptions{})

	vscode := projenrc.NewVscodeProject(project)

	packageGoTask := project.AddTask(projenrc.StrPtr("package:go"), &projen.TaskOptions{
		Steps: &[]*projen.TaskStep{
			{Exec: projenrc.StrPtr(`go build -o "bin/bslsp$(go env GOEXE)" -ldflags "-s -w -X main.version=${VERSION:-dev}" ./cmd/bslsp`)},
			{Exec: projenrc.StrPtr(`mkdir -p dist && tar -czf "dist/bslsp-${VERSION}-${GOOS}-${GOARCH}.tar.gz" -C bin "bslsp$(go env GOEXE)"`)},
		},
	})
	packageVsceTask := project.AddTask(projenrc.StrPtr("package:vscode"), &projen.TaskOptions{
		Steps: &[]*projen.TaskStep{
			{Exec: projenrc.StrPtr(`go build -o "./editors/vscode/bslsp$(go env GOEXE)" -ldflags "-s -w -X main.version=${VERSION:-dev}" ./cmd/bslsp`)},
			{
				Exec: projenrc.StrPtr(`mkdir -p ../../dist && npx vsce package --target "$VSCE_TARGET" --out "../../dist/brain-surgeon-vscode-${VERSION}-${VSCE_TARGET}.vsix"`),
				Cwd:  projenrc.StrPtr("./editors/vscode"),
			},
		},
	})
	project.PackageTask().Exec(projenrc.StrPtr(`go build -o bin/bslsp -ldflags "-s -w" ./cmd/bslsp`), &projen.TaskStepOptions{})

	gh := project.Github()
	projenrc.NewTestWorkflow(gh)
	projenrc.NewGitHubReleaseWorkflow(project, gh, packageVsceTask, packageGoTask)

	project.Synth()
	vscode.Synth()
}
