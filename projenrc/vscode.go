package projenrc

import (
	"fmt"

	"github.com/projen/projen-go/projen"
	"github.com/projen/projen-go/projen/javascript"
	"github.com/projen/projen-go/projen/typescript"
)

type Contributes struct {
	Languages     []Language    `json:"languages"`
	Configuration Configuration `json:"configuration"`
}

// Language registers a language id with VS Code.
type Language struct {
	ID         string   `json:"id"`
	Aliases    []string `json:"aliases"`
	Extensions []string `json:"extensions"`
}

// Configuration is the contributes.configuration section of the
// extension manifest.
type Configuration struct {
	Title      string              `json:"title"`
	Properties map[string]Property `json:"properties"`
}

// Property represents a property in the configuration.
type Property struct {
	Type                []string `json:"type"`
	Default             *string  `json:"default"`
	MarkdownDescription string   `json:"markdownDescription"`
}

func NewVscodeProject(project projen.Project) typescript.TypeScriptProject {
	vscode := typescript.NewTypeScriptProject(&typescript.TypeScriptProjectOptions{
		DefaultReleaseBranch: StrPtr("main"),
		Outdir:               StrPtr("editors/vscode"),
		SampleCode:           BoolPtr(false),
		Parent:               project,
		Prettier:             BoolPtr(true),
		PrettierOptions: &javascript.PrettierOptions{
			Settings: &javascript.PrettierSettings{
				SingleQuote: BoolPtr(true),
			},
		},
		Description: StrPtr("Brain Surgeon diagnostics and formatting for Brainfuck in Visual Studio Code"),
		Repository:  StrPtr("https://github.com/0x15BA88FF/brain-surgeon"),
		EslintOptions: &javascript.EslintOptions{
			Dirs:     &[]*string{},
			Prettier: BoolPtr(true),
		},
		Name:       StrPtr("brain-surgeon-vscode"),
		AuthorName: StrPtr("0x15BA88FF"),
		Deps:       &[]*string{StrPtr("vscode-languageclient")},
		DevDeps:    &[]*string{StrPtr("@types/vscode"), StrPtr("@vscode/vsce")},
	})

	vscode.Gitignore().AddPatterns(StrPtr("bslsp"), StrPtr("bslsp.exe"))
	vscode.Package().AddField(StrPtr("main"), "assets/extension/index.js")
	bundle := vscode.Bundler().AddBundle(StrPtr("src/extension.ts"), &javascript.AddBundleOptions{
		Platform:  StrPtr("node"),
		Target:    StrPtr("node16"),
		Externals: &[]*string{StrPtr("vscode")},
		Minify:    BoolPtr(true),
	})

	projen.NewIgnoreFile(vscode, StrPtr(".vscodeignore"), &projen.IgnoreFileOptions{
		IgnorePatterns: &[]*string{
			StrPtr("node_modules"),
			StrPtr("!assets/extension/index.js"),
			StrPtr("!bslsp"),
			StrPtr("!bslsp.exe"),
			StrPtr("!README.md"),
			StrPtr("!LICENSE"),
			StrPtr("!package.json"),
			StrPtr("**/*"),
		},
	})

	vscode.AddScripts(&map[string]*string{
		"vscode:prepublish": StrPtr(fmt.Sprintf("npx projen %s", *bundle.BundleTask.Name())),
	})

	vscode.PackageTask().Reset(StrPtr("npx vsce package --out ../../bin/"), &projen.TaskStepOptions{})
	vscode.Package().AddField(StrPtr("activationEvents"), []string{
		"onLanguage:brainfuck",
	})
	vscode.Package().AddField(StrPtr("engines"), map[string]any{
		"vscode": "^1.99.1",
	})
	vscode.Package().AddField(StrPtr("contributes"), Contributes{
		Languages: []Language{{
			ID:         "brainfuck",
			Aliases:    []string{"Brainfuck", "bf"},
			Extensions: []string{".bf", ".b"},
		}},
		Configuration: Configuration{
			Title: "Brain Surgeon",
			Properties: map[string]Property{
				"bslsp.server.path": {
					Type:                []string{"string", "null"},
					Default:             nil,
					MarkdownDescription: "Path to the `bslsp` binary. Leave as `null` to use the binary bundled with the extension.",
				},
				"bslsp.executable": {
					Type:                []string{"string"},
					Default:             StrPtr("brain-surgeon"),
					MarkdownDescription: "The `brain-surgeon` executable run on save. Passed to `bslsp --executable`.",
				},
				"bslsp.logLevel": {
					Type:                []string{"string"},
					Default:             StrPtr("info"),
					MarkdownDescription: "The log level of `bslsp`. One of `debug`, `info`, `warn` or `error`.",
				},
			},
		},
	})
	return vscode
}
