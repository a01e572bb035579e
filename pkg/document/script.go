package document

import (
	"fmt"
	"strconv"
)

// Bootstrap returns the inline bootstrap script included in every chart
// document. It installs a global error handler that forwards uncaught
// exceptions to the error channel and a guarded-evaluation helper that runs
// an arbitrary script string inside try/catch, redirecting any exception to
// the error channel instead of letting it propagate. Host stability depends
// on this guard: nothing evaluated through it can escape the embedded
// context.
func Bootstrap(errorChannel string) string {
	return fmt.Sprintf(`(function() {
  function post(channel, body) {
    var sink = window[channel];
    if (sink && typeof sink.postMessage === "function") {
      sink.postMessage(body);
    }
  }
  window.__chartviewPost = post;
  window.onerror = function(message, url, line, column, error) {
    var record = { message: String(message), url: String(url), line: line, column: column };
    if (error && error.stack) {
      record.error = String(error.stack);
    }
    post(%q, JSON.stringify(record));
  };
  window.guardedRun = function(src) {
    try {
      eval(src);
    } catch (e) {
      post(%q, String(e));
    }
  };
})();`, errorChannel, errorChannel)
}

// EventBridge returns the script snippet that defines the host-callable
// forwarding function. Click handlers inside chart configs call
// postChartEvent to deliver a payload to the host over the event channel.
func EventBridge(eventChannel string) string {
	return fmt.Sprintf(`window.postChartEvent = function(payload) {
  var body = typeof payload === "string" ? payload : JSON.stringify(payload);
  window.__chartviewPost(%q, body);
};`, eventChannel)
}

// entryScript returns the entry-point definition for one chart: a render
// function, keyed by mount identifier so several charts can share a hosted
// document, that initializes the charting library on the mount element and
// applies the spec verbatim.
func entryScript(o Options) string {
	return fmt.Sprintf(`window.__chartviewRender = window.__chartviewRender || {};
window.__chartviewRender[%q] = function() {
  var mount = document.getElementById(%q);
  var chart = echarts.init(mount, null, { width: %s, height: %s });
  chart.setOption(%s, true);
};`,
		o.MountID, o.MountID,
		formatNumber(o.Width), formatNumber(o.Height),
		o.Spec)
}

// InvokeEntry returns the script that invokes a chart's entry point through
// the guarded-evaluation helper. Any exception raised while initializing the
// chart or applying the spec is caught inside the embedded context and
// reported as a string over the error channel.
func InvokeEntry(mountID string) string {
	call := fmt.Sprintf("window.__chartviewRender[%q]();", mountID)
	return fmt.Sprintf("guardedRun(%q);", call)
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
