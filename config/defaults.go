package config

import "github.com/weiihann/jvmsweep/suite"

// DefaultHeap is the fixed -Xms/-Xmx size. Keep it in line with the heap
// reservations configured for the machine.
const DefaultHeap = "12G"

func defaultVMs() []VMDef {
	return []VMDef{
		{
			Name: "graal-ce-hotspot",
			Args: []string{
				"${" + KeyGraalCEDir + "}/bin/java",
				"-XX:-EnableJVMCI", "-XX:-UseJVMCICompiler",
			},
		},
		{
			Name: "graal-ce",
			Args: []string{"${" + KeyGraalCEDir + "}/bin/java"},
		},
		{
			Name: "openj9",
			Args: []string{"${" + KeyOpenJ9Dir + "}/bin/java"},
		},
	}
}

func defaultBenchmarks() map[suite.Suite][]string {
	return map[suite.Suite][]string{
		// Renaissance 0.9.0, without the "dummy" benchmark.
		suite.Renaissance: {
			"akka-uct", "als", "chi-square", "db-shootout", "dec-tree",
			"dotty", "finagle-chirper", "finagle-http", "fj-kmeans",
			"future-genetic", "gauss-mix", "log-regression", "mnemonics",
			"movie-lens", "naive-bayes", "neo4j-analytics", "page-rank",
			"par-mnemonics", "philosophers", "reactors", "rx-scrabble",
			"scala-doku", "scala-kmeans", "scala-stm-bench7", "scrabble",
		},
		// From `java -jar dacapo.jar -l`.
		suite.DaCapo: {
			"avrora", "batik", "eclipse", "fop", "h2", "jython",
			"luindex", "lusearch", "lusearch-fix", "pmd", "sunflow",
			"tomcat", "tradebeans", "tradesoap", "xalan",
		},
		// From the end of the SPECjvm2008 -h text, without the startup
		// benchmarks.
		suite.SPECjvm: {
			"compiler.compiler", "compiler.sunflow", "compress",
			"crypto.aes", "crypto.rsa", "crypto.signverify", "derby",
			"mpegaudio", "scimark.fft.large", "scimark.lu.large",
			"scimark.sor.large", "scimark.sparse.large",
			"scimark.fft.small", "scimark.lu.small", "scimark.sor.small",
			"scimark.sparse.small", "scimark.monte_carlo", "serial",
			"sunflow", "xml.transform", "xml.validation",
		},
	}
}

// defaultSkip lists benchmarks known to be broken per VM.
//
// DaCapo batik needs the proprietary Oracle JDK, eclipse has bitrotted on
// modern JVMs, and tomcat fails basic-arithmetic.jsp with status 500.
// SPECjvm compiler.* fail in bmSetupBenchmarkMethod everywhere.
func defaultSkip() map[suite.Suite]map[string][]string {
	specBroken := []string{"compiler.compiler", "compiler.sunflow"}

	return map[suite.Suite]map[string][]string{
		suite.Renaissance: {},
		suite.DaCapo: {
			"graal-ce-hotspot": {"batik", "eclipse", "tomcat"},
			// tradesoap: javax.ejb.FinderException: Cannot find account forPRGS
			"graal-ce": {"batik", "eclipse", "tomcat", "tradesoap"},
			// tradebeans, tradesoap: ArrayIndexOutOfBoundsException
			"openj9": {"batik", "eclipse", "tomcat", "tradebeans", "tradesoap"},
		},
		suite.SPECjvm: {
			"graal-ce-hotspot": specBroken,
			"graal-ce":         specBroken,
			"openj9":           specBroken,
		},
	}
}
