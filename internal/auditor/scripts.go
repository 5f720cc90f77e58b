package auditor

// In-page snippets. Each is a function expression handed to Session.Execute
// or Session.ExecuteAsync; results must be JSON serializable.
const (
	engineLoadedScript = `() => typeof window.axe !== 'undefined' && typeof window.axe.run === 'function'`

	runScript = `(options) => window.axe.run(options)`

	runAsyncScript = `(arg, done) => {
	window.axe.run(arg, (err, results) => {
		if (err) {
			done({ error: String((err && err.message) || err) });
			return;
		}
		done(results);
	});
}`

	rulesScript = `(tags) => window.axe.getRules(tags || [])`

	configureScript = `(spec) => { window.axe.configure(spec); return null; }`

	resetScript = `() => { window.axe.reset(); return null; }`
)
