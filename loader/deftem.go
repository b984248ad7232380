package loader

const deftem = `
import json
import sys

import joblib
import numpy as np

from http.server import BaseHTTPRequestHandler, ThreadingHTTPServer

################################################################################

MODEL = joblib.load("{{ .Pat }}/{{ .Mod }}")

################################################################################

def predict_stage(body):
  vec = np.array([json.loads(body)["vec"]], dtype=float)
  return int(MODEL.predict(vec)[0])

################################################################################

class Sidecar(BaseHTTPRequestHandler):
  def reply(self, code, text):
    byt = text.encode("utf-8")

    self.send_response(code)
    self.send_header("Content-Type", "text/plain")
    self.send_header("Content-Length", str(len(byt)))
    self.end_headers()
    self.wfile.write(byt)

  def do_GET(self):
    self.reply(200, "OK {{ .Tok }}\n")

  def do_POST(self):
    size = int(self.headers.get("Content-Length", 0))

    try:
      stage = predict_stage(self.rfile.read(size).decode("utf-8"))
    except Exception as e:
      self.reply(500, str(e))
      return

    self.reply(200, str(stage))

  def log_message(self, format, *args):
    return

################################################################################

server = ThreadingHTTPServer(("{{ .Add }}", {{ .Por }}), Sidecar)
print("serving predictions on {{ .Add }}:{{ .Por }}", file=sys.stderr)

try:
  server.serve_forever()
except KeyboardInterrupt:
  pass
finally:
  server.server_close()
`
