package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"implgen/internal/cli"
	"implgen/internal/models"
	"implgen/internal/utils"
)

func main() {
	var (
		jarFlag     = flag.Bool("jar", false, "Compile the stub and package it into <SimpleName>Impl.jar")
		configFlag  = flag.String("config", "", "Path to a TOML config file (implgen.toml is read when present)")
		verboseFlag = flag.Bool("verbose", false, "Enable verbose output")
		quietFlag   = flag.Bool("quiet", false, "Only show errors")
		helpFlag    = flag.Bool("help", false, "Show help information")
		classpath   string
	)
	flag.StringVar(&classpath, "cp", "", "Classpath entries separated by the platform list separator; dir/* expands to the jars in dir")
	flag.StringVar(&classpath, "classpath", "", "Alias for -cp")

	flag.Usage = usage
	flag.Parse()

	if *helpFlag {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	wantArgs := 1
	if *jarFlag {
		wantArgs = 2
	}
	if len(args) != wantArgs {
		if *jarFlag {
			fmt.Fprintf(os.Stderr, "Error: -jar mode takes a fully qualified type name and an archive directory\n\n")
		} else {
			fmt.Fprintf(os.Stderr, "Error: exactly one fully qualified type name is required\n\n")
		}
		flag.Usage()
		os.Exit(1)
	}

	diagnostics := selectDiagnostics(*verboseFlag, *quietFlag)
	reporter := cli.NewDiagnosticReporter(*verboseFlag)

	config := cli.DefaultConfig()
	configPath := *configFlag
	explicit := configPath != ""
	if !explicit {
		configPath = cli.DefaultConfigFile
	}
	if err := config.ApplyFile(configPath, explicit); err != nil {
		diagnostics.Error("%v", err)
		os.Exit(1)
	}

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	config.Target = args[0]
	config.Classpath = resolveClasspath(classpath, set["cp"] || set["classpath"], config.Classpath)
	config.Verbose = *verboseFlag
	config.Quiet = *quietFlag

	if *jarFlag {
		archiveDir := args[1]
		config.JarPath = archivePathFor(config.Target, archiveDir)
		// Classes generated earlier into the same directory stay resolvable
		if info, err := os.Stat(archiveDir); err == nil && info.IsDir() {
			config.Classpath = append(config.Classpath, archiveDir)
		}
		if _, err := os.Stat(config.JarPath); err == nil {
			reporter.ReportWarning("replacing existing archive %s", config.JarPath)
		}
	}

	generator := cli.NewGenerator(diagnostics)
	if err := generator.Run(config); err != nil {
		reporter.ReportError(err)
		os.Exit(1)
	}

	diagnostics.Success("implemented %s", config.Target)
}

// selectDiagnostics picks the diagnostic level from the CLI flags, quiet
// winning over verbose
func selectDiagnostics(verbose, quiet bool) *utils.DiagnosticSystem {
	if quiet {
		return utils.NewQuietDiagnostics()
	}
	if verbose {
		return utils.NewVerboseDiagnostics()
	}
	return utils.NewDiagnosticSystem(utils.DiagnosticInfo)
}

// resolveClasspath applies precedence between the -cp flag, the config file
// and the built-in default of the current directory
func resolveClasspath(flagValue string, flagSet bool, fileEntries []string) []string {
	scanner := cli.NewClasspathScanner()
	if flagSet {
		return scanner.Expand(flagValue)
	}
	if len(fileEntries) > 0 {
		return scanner.Expand(strings.Join(fileEntries, string(os.PathListSeparator)))
	}
	return []string{"."}
}

// archivePathFor derives the archive file name from the target's simple name
func archivePathFor(target, archiveDir string) string {
	_, simple := models.SplitName(target)
	return filepath.Join(archiveDir, simple+"Impl.jar")
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: %s [options] <fully-qualified-type-name>\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "       %s -jar [options] <fully-qualified-type-name> <archive-dir>\n\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "Java implementation stub generator\n")
	fmt.Fprintf(os.Stderr, "Loads the named interface or non-final class from the classpath and writes a\n")
	fmt.Fprintf(os.Stderr, "minimal concrete subclass named <SimpleName>Impl.\n\n")
	fmt.Fprintf(os.Stderr, "Options:\n")
	flag.PrintDefaults()
	fmt.Fprintf(os.Stderr, "\nArguments:\n")
	fmt.Fprintf(os.Stderr, "  fully-qualified-type-name   Canonical name of the type to implement, e.g. com.example.Task\n")
	fmt.Fprintf(os.Stderr, "  archive-dir                 Directory receiving <SimpleName>Impl.jar in -jar mode\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  %s -cp build/classes com.example.Task        # write TaskImpl.java to the current directory\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -cp 'lib/*' com.example.Task              # load from every jar under lib\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -jar -cp build/classes com.example.Task dist   # compile and package dist/TaskImpl.jar\n", os.Args[0])
	fmt.Fprintf(os.Stderr, "  %s -config ci/implgen.toml -verbose com.example.Task\n", os.Args[0])
}
